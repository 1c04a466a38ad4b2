package shops

import (
	"context"
	"sync"
	"time"

	"inspection-backend/internal/scoring/recommendations"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	shops map[string]Shop
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		shops: make(map[string]Shop),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Create(ctx context.Context, shop Shop) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[shop.ID]; ok {
		return ErrAlreadyExists
	}
	now := r.now()
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = now
	}
	shop.UpdatedAt = now
	r.shops[shop.ID] = shop
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, shopID string) (Shop, error) {
	if err := ctx.Err(); err != nil {
		return Shop{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	shop, ok := r.shops[shopID]
	if !ok {
		return Shop{}, ErrNotFound
	}
	return shop, nil
}

func (r *MemoryRepo) UpdateConfig(ctx context.Context, shopID string, cfg recommendations.ShopConfig) (Shop, error) {
	if err := ctx.Err(); err != nil {
		return Shop{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	shop, ok := r.shops[shopID]
	if !ok {
		return Shop{}, ErrNotFound
	}
	shop.Config = cfg
	shop.UpdatedAt = r.now()
	r.shops[shopID] = shop
	return shop, nil
}
