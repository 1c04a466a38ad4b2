package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Upsert stores a shop member. Role defaults to technician.
func (s *Service) Upsert(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user.ID = strings.TrimSpace(user.ID)
	user.ShopID = strings.TrimSpace(user.ShopID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FullName = strings.TrimSpace(user.FullName)
	if user.ID == "" || user.ShopID == "" || user.Email == "" {
		return User{}, fmt.Errorf("%w: id, shopId and email are required", ErrInvalidInput)
	}
	if user.Role == "" {
		user.Role = RoleTechnician
	}
	if !ValidRole(user.Role) {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, user.Role)
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// ListByShop returns the members of a shop.
func (s *Service) ListByShop(ctx context.Context, shopID string) ([]User, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("users service not configured")
	}
	if strings.TrimSpace(shopID) == "" {
		return nil, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	return s.Repo.ListByShop(ctx, shopID)
}
