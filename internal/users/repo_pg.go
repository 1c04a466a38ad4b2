package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const userColumns = `id, shop_id, email, full_name, role, created_at, updated_at`

// PGRepo implements Repo using Postgres. User and shop ids are UUID columns.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	if _, err := uuid.Parse(user.ID); err != nil {
		return fmt.Errorf("%w: user id must be a UUID", ErrInvalidInput)
	}
	if _, err := uuid.Parse(user.ShopID); err != nil {
		return fmt.Errorf("%w: shop id must be a UUID", ErrInvalidInput)
	}
	const query = `
INSERT INTO users (id, shop_id, email, full_name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  shop_id = EXCLUDED.shop_id,
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  role = EXCLUDED.role,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.ShopID,
		user.Email,
		user.FullName,
		user.Role,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return User{}, ErrNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *PGRepo) ListByShop(ctx context.Context, shopID string) ([]User, error) {
	if _, err := uuid.Parse(shopID); err != nil {
		return []User{}, nil
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE shop_id = $1 ORDER BY email`
	rows, err := r.DB.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.ShopID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
