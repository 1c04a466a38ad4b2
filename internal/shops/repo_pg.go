package shops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inspection-backend/internal/scoring/recommendations"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const shopColumns = `id, name, phone, include_cost_estimates, include_part_numbers, include_timeframes, labor_rate, markup_percent, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, shop Shop) error {
	if _, err := uuid.Parse(shop.ID); err != nil {
		return fmt.Errorf("%w: shop id must be a UUID", ErrInvalidInput)
	}
	const query = `
INSERT INTO shops (id, name, phone, include_cost_estimates, include_part_numbers, include_timeframes, labor_rate, markup_percent, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		shop.ID,
		shop.Name,
		shop.Phone,
		shop.Config.IncludeCostEstimates,
		shop.Config.IncludePartNumbers,
		shop.Config.IncludeTimeframes,
		shop.Config.LaborRate,
		shop.Config.MarkupPercent,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, shopID string) (Shop, error) {
	if _, err := uuid.Parse(shopID); err != nil {
		return Shop{}, ErrNotFound
	}
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1 LIMIT 1`
	return scanShop(r.DB.QueryRowContext(ctx, query, shopID))
}

func (r *PGRepo) UpdateConfig(ctx context.Context, shopID string, cfg recommendations.ShopConfig) (Shop, error) {
	if _, err := uuid.Parse(shopID); err != nil {
		return Shop{}, ErrNotFound
	}
	query := `
UPDATE shops SET
  include_cost_estimates = $2,
  include_part_numbers = $3,
  include_timeframes = $4,
  labor_rate = $5,
  markup_percent = $6,
  updated_at = now()
WHERE id = $1
RETURNING ` + shopColumns
	return scanShop(r.DB.QueryRowContext(ctx, query,
		shopID,
		cfg.IncludeCostEstimates,
		cfg.IncludePartNumbers,
		cfg.IncludeTimeframes,
		cfg.LaborRate,
		cfg.MarkupPercent,
	))
}

func scanShop(row *sql.Row) (Shop, error) {
	var shop Shop
	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Phone,
		&shop.Config.IncludeCostEstimates,
		&shop.Config.IncludePartNumbers,
		&shop.Config.IncludeTimeframes,
		&shop.Config.LaborRate,
		&shop.Config.MarkupPercent,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shop{}, ErrNotFound
		}
		return Shop{}, err
	}
	return shop, nil
}
