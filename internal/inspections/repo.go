package inspections

import "context"

// Repo defines persistence operations for inspections.
type Repo interface {
	Create(ctx context.Context, insp Inspection) error
	// Get loads an inspection with its items, scoped to a shop.
	Get(ctx context.Context, shopID, id string) (Inspection, error)
	// GetUnscoped loads an inspection by ID alone, for public reports.
	GetUnscoped(ctx context.Context, id string) (Inspection, error)
	// List returns a shop's inspections newest first, without items.
	List(ctx context.Context, shopID string, limit, offset int) ([]Inspection, error)
	// InTx runs fn atomically: all writes through tx commit together or not at all.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write surface available inside Repo.InTx.
type Tx interface {
	// GetForUpdate loads and locks an inspection with its items.
	GetForUpdate(ctx context.Context, shopID, id string) (Inspection, error)
	UpsertItem(ctx context.Context, item Item) error
	// UpdateSummary writes status, urgency and timestamps of insp.
	UpdateSummary(ctx context.Context, insp Inspection) error
}
