package inspections

import (
	"time"

	"inspection-backend/internal/scoring"
	"inspection-backend/internal/scoring/recommendations"
	"inspection-backend/internal/scoring/urgency"
)

// Status is the inspection workflow state.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSent       Status = "sent"
)

// Editable reports whether items may still be added or changed.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusInProgress
}

// Vehicle identifies the inspected vehicle.
type Vehicle struct {
	VIN     string `json:"vin"`
	Year    int    `json:"year"`
	Make    string `json:"make"`
	Model   string `json:"model"`
	Mileage *int   `json:"mileage,omitempty"`
}

// Customer is the vehicle owner who receives the report.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Inspection is a multi-point inspection with its aggregate urgency.
type Inspection struct {
	ID             string        `json:"id"`
	ShopID         string        `json:"shopId"`
	TechnicianID   string        `json:"technicianId"`
	Vehicle        Vehicle       `json:"vehicle"`
	Customer       Customer      `json:"customer"`
	Status         Status        `json:"status"`
	UrgencyLevel   urgency.Level `json:"urgencyLevel"`
	UrgencyScore   int           `json:"urgencyScore"`
	UrgencyFactors []string      `json:"urgencyFactors"`
	Actions        []string      `json:"actions"`
	Items          []Item        `json:"items"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty"`
	SentAt         *time.Time    `json:"sentAt,omitempty"`
}

// Item is one inspected component with its computed urgency and recommendation.
type Item struct {
	ID             string                  `json:"id"`
	InspectionID   string                  `json:"inspectionId"`
	ItemType       string                  `json:"itemType"`
	Condition      scoring.Condition       `json:"condition"`
	Measurements   scoring.Measurements    `json:"measurements"`
	Notes          string                  `json:"notes"`
	Priority       int                     `json:"priority"`
	UrgencyLevel   urgency.Level           `json:"urgencyLevel"`
	UrgencyScore   int                     `json:"urgencyScore"`
	Factors        []string                `json:"factors"`
	Actions        []string                `json:"actions"`
	EstimatedCost  *float64                `json:"estimatedCost,omitempty"`
	Recommendation *recommendations.Result `json:"recommendation,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// urgencyInput maps a stored item back to calculator input.
func (it Item) urgencyInput() urgency.Input {
	return urgency.Input{
		Condition:    it.Condition,
		ItemType:     it.ItemType,
		Measurements: it.Measurements,
		Priority:     it.Priority,
	}
}

// applySummary recomputes the aggregate from the current items.
func (i *Inspection) applySummary() {
	inputs := make([]urgency.Input, 0, len(i.Items))
	for _, it := range i.Items {
		inputs = append(inputs, it.urgencyInput())
	}
	res := urgency.CalculateInspection(inputs)
	i.UrgencyLevel = res.Level
	i.UrgencyScore = res.Score
	i.UrgencyFactors = res.Factors
	i.Actions = res.Recommendations
}

func (i *Inspection) itemIndex(itemID string) int {
	for idx, it := range i.Items {
		if it.ID == itemID {
			return idx
		}
	}
	return -1
}

func (i Inspection) clone() Inspection {
	out := i
	out.Items = make([]Item, len(i.Items))
	copy(out.Items, i.Items)
	return out
}
