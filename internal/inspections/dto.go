package inspections

import (
	"time"

	"inspection-backend/internal/scoring"
	"inspection-backend/internal/scoring/recommendations"
	"inspection-backend/internal/scoring/urgency"
)

// CreateInput starts a new inspection.
type CreateInput struct {
	Vehicle  Vehicle  `json:"vehicle"`
	Customer Customer `json:"customer"`
}

// ItemInput is the technician-entered data for one item.
type ItemInput struct {
	ItemType     string               `json:"itemType"`
	Condition    string               `json:"condition"`
	Measurements scoring.Measurements `json:"measurements"`
	Notes        string               `json:"notes"`
	Priority     int                  `json:"priority"`
}

// ItemResult is returned by AddItem and UpdateItem.
type ItemResult struct {
	Item       Item       `json:"item"`
	Inspection Inspection `json:"inspection"`
}

// SendResult is returned by Send.
type SendResult struct {
	Inspection         Inspection `json:"inspection"`
	ShortURL           string     `json:"shortUrl"`
	NotificationID     string     `json:"notificationId"`
	NotificationStatus string     `json:"notificationStatus"`
}

// listResponse wraps a page of inspections.
type listResponse struct {
	Items  []Inspection `json:"items"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// PublicReport is the customer-facing view of an inspection. It omits
// contact details and technician identity.
type PublicReport struct {
	ID             string        `json:"id"`
	ShopName       string        `json:"shopName"`
	Vehicle        PublicVehicle `json:"vehicle"`
	UrgencyLevel   urgency.Level `json:"urgencyLevel"`
	UrgencyScore   int           `json:"urgencyScore"`
	Actions        []string      `json:"actions"`
	Items          []PublicItem  `json:"items"`
	EstimatedTotal *float64      `json:"estimatedTotal,omitempty"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty"`
}

// PublicVehicle hides the VIN except its last six characters.
type PublicVehicle struct {
	Year    int    `json:"year"`
	Make    string `json:"make"`
	Model   string `json:"model"`
	VINTail string `json:"vinTail,omitempty"`
	Mileage *int   `json:"mileage,omitempty"`
}

// PublicItem is one item on the customer report.
type PublicItem struct {
	ItemType       string                  `json:"itemType"`
	Condition      scoring.Condition       `json:"condition"`
	UrgencyLevel   urgency.Level           `json:"urgencyLevel"`
	Notes          string                  `json:"notes,omitempty"`
	EstimatedCost  *float64                `json:"estimatedCost,omitempty"`
	Recommendation *recommendations.Result `json:"recommendation,omitempty"`
}
