package shops

import (
	"time"

	"inspection-backend/internal/scoring/recommendations"
)

// Shop is a tenant: one repair shop with its recommendation policy.
type Shop struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Phone     string                     `json:"phone"`
	Config    recommendations.ShopConfig `json:"config"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Bounds on the configurable cost inputs. Estimates are stored as
// NUMERIC(10,2), so the labor rate is kept far below that range.
const (
	MaxMarkupPercent = 500.0
	MaxLaborRate     = 10000.0
)
