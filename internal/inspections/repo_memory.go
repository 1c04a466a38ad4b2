package inspections

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo. InTx serializes writers on one lock and
// applies staged changes only when fn succeeds.
type MemoryRepo struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	inspections map[string]Inspection
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{inspections: make(map[string]Inspection)}
}

func (r *MemoryRepo) Create(ctx context.Context, insp Inspection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inspections[insp.ID] = insp.clone()
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, shopID, id string) (Inspection, error) {
	insp, err := r.GetUnscoped(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	if insp.ShopID != shopID {
		return Inspection{}, ErrNotFound
	}
	return insp, nil
}

func (r *MemoryRepo) GetUnscoped(ctx context.Context, id string) (Inspection, error) {
	if err := ctx.Err(); err != nil {
		return Inspection{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	insp, ok := r.inspections[id]
	if !ok {
		return Inspection{}, ErrNotFound
	}
	return insp.clone(), nil
}

func (r *MemoryRepo) List(ctx context.Context, shopID string, limit, offset int) ([]Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Inspection, 0)
	for _, insp := range r.inspections {
		if insp.ShopID == shopID {
			insp.Items = []Item{}
			out = append(out, insp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Inspection{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{repo: r, staged: make(map[string]Inspection)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, insp := range tx.staged {
		r.inspections[id] = insp
	}
	return nil
}

type memoryTx struct {
	repo   *MemoryRepo
	staged map[string]Inspection
}

func (t *memoryTx) GetForUpdate(ctx context.Context, shopID, id string) (Inspection, error) {
	if insp, ok := t.staged[id]; ok {
		if insp.ShopID != shopID {
			return Inspection{}, ErrNotFound
		}
		return insp.clone(), nil
	}
	return t.repo.Get(ctx, shopID, id)
}

func (t *memoryTx) load(ctx context.Context, id string) (Inspection, error) {
	if insp, ok := t.staged[id]; ok {
		return insp, nil
	}
	return t.repo.GetUnscoped(ctx, id)
}

func (t *memoryTx) UpsertItem(ctx context.Context, item Item) error {
	insp, err := t.load(ctx, item.InspectionID)
	if err != nil {
		return err
	}
	insp = insp.clone()
	if idx := insp.itemIndex(item.ID); idx >= 0 {
		insp.Items[idx] = item
	} else {
		insp.Items = append(insp.Items, item)
	}
	t.staged[insp.ID] = insp
	return nil
}

func (t *memoryTx) UpdateSummary(ctx context.Context, summary Inspection) error {
	insp, err := t.load(ctx, summary.ID)
	if err != nil {
		return err
	}
	insp = insp.clone()
	insp.Status = summary.Status
	insp.UrgencyLevel = summary.UrgencyLevel
	insp.UrgencyScore = summary.UrgencyScore
	insp.UrgencyFactors = summary.UrgencyFactors
	insp.Actions = summary.Actions
	insp.UpdatedAt = summary.UpdatedAt
	insp.CompletedAt = summary.CompletedAt
	insp.SentAt = summary.SentAt
	t.staged[insp.ID] = insp
	return nil
}
