package shops

import (
	"context"

	"inspection-backend/internal/scoring/recommendations"
)

// Repo defines persistence operations for shops.
type Repo interface {
	Create(ctx context.Context, shop Shop) error
	GetByID(ctx context.Context, shopID string) (Shop, error)
	UpdateConfig(ctx context.Context, shopID string, cfg recommendations.ShopConfig) (Shop, error)
}
