package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps shop members in process for dev and tests. It enforces
// the same email uniqueness as the users table.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
	byShop  map[string]map[string]struct{}
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
		byShop:  make(map[string]map[string]struct{}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert inserts or replaces a member, moving it between shop indexes when
// its shop changes. CreatedAt survives updates.
func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byEmail[user.Email]; ok && owner != user.ID {
		return ErrEmailTaken
	}

	now := r.now()
	user.CreatedAt = now
	if prev, ok := r.byID[user.ID]; ok {
		user.CreatedAt = prev.CreatedAt
		delete(r.byEmail, prev.Email)
		if members := r.byShop[prev.ShopID]; members != nil {
			delete(members, prev.ID)
		}
	}
	user.UpdatedAt = now

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	members := r.byShop[user.ShopID]
	if members == nil {
		members = make(map[string]struct{})
		r.byShop[user.ShopID] = members
	}
	members[user.ID] = struct{}{}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// ListByShop returns a shop's members ordered by email.
func (r *MemoryRepo) ListByShop(ctx context.Context, shopID string) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]User, 0, len(r.byShop[shopID]))
	for id := range r.byShop[shopID] {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
