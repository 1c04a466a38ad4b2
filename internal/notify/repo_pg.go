package notify

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, n Notification) error {
	const query = `
INSERT INTO notifications (id, inspection_id, channel, recipient, body, short_code, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID,
		n.InspectionID,
		n.Channel,
		n.Recipient,
		n.Body,
		n.ShortCode,
		n.Status,
	)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status, providerMessageID, errMsg string) error {
	const query = `
UPDATE notifications SET
  status = $2,
  provider_message_id = COALESCE($3, provider_message_id),
  error_message = $4,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status, nullableString(providerMessageID), nullableString(errMsg))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Notification, error) {
	const query = `
SELECT id, inspection_id, channel, recipient, body, short_code, status, provider_message_id, error_message, created_at, updated_at
FROM notifications
WHERE id = $1`
	var n Notification
	var providerID sql.NullString
	var errMsg sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.InspectionID,
		&n.Channel,
		&n.Recipient,
		&n.Body,
		&n.ShortCode,
		&n.Status,
		&providerID,
		&errMsg,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	n.ProviderMessageID = providerID.String
	n.ErrorMessage = errMsg.String
	return n, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
