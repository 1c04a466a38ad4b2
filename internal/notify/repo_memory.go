package notify

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu            sync.RWMutex
	notifications map[string]Notification
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{notifications: make(map[string]Notification)}
}

func (r *MemoryRepo) Create(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	r.notifications[n.ID] = n
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status, providerMessageID, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Status = status
	if providerMessageID != "" {
		n.ProviderMessageID = providerMessageID
	}
	n.ErrorMessage = errMsg
	n.UpdatedAt = time.Now().UTC()
	r.notifications[id] = n
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notifications[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return n, nil
}
