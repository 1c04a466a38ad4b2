package notify

import "time"

// Notification statuses.
const (
	StatusPending = "pending"
	StatusQueued  = "queued"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Notification is one SMS sent (or attempted) for an inspection.
type Notification struct {
	ID                string    `json:"id"`
	InspectionID      string    `json:"inspectionId"`
	Channel           string    `json:"channel"`
	Recipient         string    `json:"recipient"`
	Body              string    `json:"body"`
	ShortCode         string    `json:"shortCode,omitempty"`
	Status            string    `json:"status"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	ErrorMessage      string    `json:"errorMessage,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
