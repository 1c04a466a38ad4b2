package shops

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"inspection-backend/internal/scoring/recommendations"
	"inspection-backend/internal/shared/telemetry"
)

// Service exposes shop lookups and the shop-configuration provider.
type Service struct {
	Repo Repo
	// Cache is optional; nil disables config caching.
	Cache            ConfigCache
	DefaultLaborRate float64
}

func NewService(repo Repo, cache ConfigCache, defaultLaborRate float64) *Service {
	return &Service{Repo: repo, Cache: cache, DefaultLaborRate: defaultLaborRate}
}

// Create registers a shop under a fresh id with the default recommendation policy.
func (s *Service) Create(ctx context.Context, name, phone string) (Shop, error) {
	return s.Register(ctx, uuid.NewString(), name, phone)
}

// Register creates the shop a token already names. Registering the same
// id twice returns ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, shopID, name, phone string) (Shop, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return Shop{}, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Shop{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	cfg := recommendations.DefaultShopConfig()
	if s.DefaultLaborRate > 0 {
		cfg.LaborRate = s.DefaultLaborRate
	}
	shop := Shop{
		ID:     shopID,
		Name:   name,
		Phone:  strings.TrimSpace(phone),
		Config: cfg,
	}
	if err := s.Repo.Create(ctx, shop); err != nil {
		return Shop{}, err
	}
	telemetry.Info("shops.registered", map[string]any{"shop_id": shop.ID})
	return s.Repo.GetByID(ctx, shop.ID)
}

func (s *Service) Get(ctx context.Context, shopID string) (Shop, error) {
	if strings.TrimSpace(shopID) == "" {
		return Shop{}, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, shopID)
}

// UpdateConfig validates and stores a new policy and drops the cached copy.
func (s *Service) UpdateConfig(ctx context.Context, shopID string, cfg recommendations.ShopConfig) (Shop, error) {
	if strings.TrimSpace(shopID) == "" {
		return Shop{}, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	if err := validateConfig(cfg); err != nil {
		return Shop{}, err
	}
	shop, err := s.Repo.UpdateConfig(ctx, shopID, cfg)
	if err != nil {
		return Shop{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, shopID); err != nil {
			telemetry.Warn("shops.cache_invalidate_failed", map[string]any{"shop_id": shopID, "error": err})
		}
	}
	return shop, nil
}

// Config returns the recommendation policy for a shop, served from cache when possible.
// A zero labor rate is replaced by the configured default.
func (s *Service) Config(ctx context.Context, shopID string) (recommendations.ShopConfig, error) {
	if s.Cache != nil {
		cfg, ok, err := s.Cache.Get(ctx, shopID)
		if err != nil {
			telemetry.Warn("shops.cache_get_failed", map[string]any{"shop_id": shopID, "error": err})
		} else if ok {
			return cfg, nil
		}
	}

	shop, err := s.Get(ctx, shopID)
	if err != nil {
		return recommendations.ShopConfig{}, err
	}
	cfg := shop.Config
	if cfg.LaborRate <= 0 {
		cfg.LaborRate = s.DefaultLaborRate
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, shopID, cfg); err != nil {
			telemetry.Warn("shops.cache_set_failed", map[string]any{"shop_id": shopID, "error": err})
		}
	}
	return cfg, nil
}

func validateConfig(cfg recommendations.ShopConfig) error {
	if math.IsNaN(cfg.LaborRate) || cfg.LaborRate < 0 || cfg.LaborRate > MaxLaborRate {
		return fmt.Errorf("%w: laborRate must be between 0 and %.0f", ErrInvalidInput, MaxLaborRate)
	}
	if math.IsNaN(cfg.MarkupPercent) || cfg.MarkupPercent < 0 || cfg.MarkupPercent > MaxMarkupPercent {
		return fmt.Errorf("%w: markupPercent must be between 0 and %.0f", ErrInvalidInput, MaxMarkupPercent)
	}
	return nil
}
