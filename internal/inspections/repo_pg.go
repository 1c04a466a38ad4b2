package inspections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inspection-backend/internal/scoring"
	"inspection-backend/internal/scoring/recommendations"
	"inspection-backend/internal/scoring/urgency"
	"inspection-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type urgencyDetail struct {
	Factors []string `json:"factors"`
	Actions []string `json:"actions"`
}

const inspectionColumns = `id, shop_id, technician_id, vin, vehicle_year, vehicle_make, vehicle_model, mileage, customer_name, customer_phone, status, urgency_level, urgency_score, urgency_detail, created_at, updated_at, completed_at, sent_at`

const itemColumns = `id, inspection_id, item_type, condition, measurements, notes, priority, urgency_level, urgency_score, urgency_detail, estimated_cost, recommendation, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, insp Inspection) error {
	const query = `
INSERT INTO inspections (
    id, shop_id, technician_id, vin, vehicle_year, vehicle_make, vehicle_model, mileage,
    customer_name, customer_phone, status, urgency_level, urgency_score, urgency_detail,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	detail, err := json.Marshal(urgencyDetail{Factors: insp.UrgencyFactors, Actions: insp.Actions})
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		insp.ID,
		insp.ShopID,
		insp.TechnicianID,
		insp.Vehicle.VIN,
		insp.Vehicle.Year,
		insp.Vehicle.Make,
		insp.Vehicle.Model,
		nullableInt(insp.Vehicle.Mileage),
		insp.Customer.Name,
		insp.Customer.Phone,
		string(insp.Status),
		string(insp.UrgencyLevel),
		insp.UrgencyScore,
		detail,
		insp.CreatedAt,
		insp.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, shopID, id string) (Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1 AND shop_id = $2`
	return loadInspection(ctx, r.DB, query, id, shopID)
}

func (r *PGRepo) GetUnscoped(ctx context.Context, id string) (Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`
	return loadInspection(ctx, r.DB, query, id)
}

func (r *PGRepo) List(ctx context.Context, shopID string, limit, offset int) ([]Inspection, error) {
	query := `SELECT ` + inspectionColumns + `
FROM inspections
WHERE shop_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Inspection, 0)
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		insp.Items = []Item{}
		out = append(out, insp)
	}
	return out, rows.Err()
}

func (r *PGRepo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, r.DB, func(sqlTx *sql.Tx) error {
		return fn(&pgTx{tx: sqlTx})
	})
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) GetForUpdate(ctx context.Context, shopID, id string) (Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1 AND shop_id = $2 FOR UPDATE`
	return loadInspection(ctx, t.tx, query, id, shopID)
}

func (t *pgTx) UpsertItem(ctx context.Context, item Item) error {
	const query = `
INSERT INTO inspection_items (
    id, inspection_id, item_type, condition, measurements, notes, priority,
    urgency_level, urgency_score, urgency_detail, estimated_cost, recommendation,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
    item_type = EXCLUDED.item_type,
    condition = EXCLUDED.condition,
    measurements = EXCLUDED.measurements,
    notes = EXCLUDED.notes,
    priority = EXCLUDED.priority,
    urgency_level = EXCLUDED.urgency_level,
    urgency_score = EXCLUDED.urgency_score,
    urgency_detail = EXCLUDED.urgency_detail,
    estimated_cost = EXCLUDED.estimated_cost,
    recommendation = EXCLUDED.recommendation,
    updated_at = EXCLUDED.updated_at`

	measurements := item.Measurements
	if measurements == nil {
		measurements = scoring.Measurements{}
	}
	measurementsJSON, err := json.Marshal(measurements)
	if err != nil {
		return fmt.Errorf("encode measurements: %w", err)
	}
	detail, err := json.Marshal(urgencyDetail{Factors: item.Factors, Actions: item.Actions})
	if err != nil {
		return err
	}
	var recommendation any
	if item.Recommendation != nil {
		raw, err := json.Marshal(item.Recommendation)
		if err != nil {
			return fmt.Errorf("encode recommendation: %w", err)
		}
		recommendation = raw
	}
	var cost any
	if item.EstimatedCost != nil {
		cost = *item.EstimatedCost
	}

	_, err = t.tx.ExecContext(ctx, query,
		item.ID,
		item.InspectionID,
		item.ItemType,
		string(item.Condition),
		measurementsJSON,
		item.Notes,
		item.Priority,
		string(item.UrgencyLevel),
		item.UrgencyScore,
		detail,
		cost,
		recommendation,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

func (t *pgTx) UpdateSummary(ctx context.Context, insp Inspection) error {
	const query = `
UPDATE inspections SET
    status = $2,
    urgency_level = $3,
    urgency_score = $4,
    urgency_detail = $5,
    updated_at = $6,
    completed_at = $7,
    sent_at = $8
WHERE id = $1`
	detail, err := json.Marshal(urgencyDetail{Factors: insp.UrgencyFactors, Actions: insp.Actions})
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, query,
		insp.ID,
		string(insp.Status),
		string(insp.UrgencyLevel),
		insp.UrgencyScore,
		detail,
		insp.UpdatedAt,
		nullableTime(insp.CompletedAt),
		nullableTime(insp.SentAt),
	)
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

func loadInspection(ctx context.Context, q queryer, query string, args ...any) (Inspection, error) {
	insp, err := scanInspection(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Inspection{}, ErrNotFound
		}
		return Inspection{}, err
	}
	items, err := loadItems(ctx, q, insp.ID)
	if err != nil {
		return Inspection{}, err
	}
	insp.Items = items
	return insp, nil
}

func loadItems(ctx context.Context, q queryer, inspectionID string) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inspection_items WHERE inspection_id = $1 ORDER BY created_at, id`
	rows, err := q.QueryContext(ctx, query, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanInspection(row rowScanner) (Inspection, error) {
	var insp Inspection
	var status, level string
	var mileage sql.NullInt64
	var detail []byte
	var completedAt, sentAt sql.NullTime
	err := row.Scan(
		&insp.ID,
		&insp.ShopID,
		&insp.TechnicianID,
		&insp.Vehicle.VIN,
		&insp.Vehicle.Year,
		&insp.Vehicle.Make,
		&insp.Vehicle.Model,
		&mileage,
		&insp.Customer.Name,
		&insp.Customer.Phone,
		&status,
		&level,
		&insp.UrgencyScore,
		&detail,
		&insp.CreatedAt,
		&insp.UpdatedAt,
		&completedAt,
		&sentAt,
	)
	if err != nil {
		return Inspection{}, err
	}
	insp.Status = Status(status)
	insp.UrgencyLevel = urgency.Level(level)
	if mileage.Valid {
		m := int(mileage.Int64)
		insp.Vehicle.Mileage = &m
	}
	d, err := decodeDetail(detail)
	if err != nil {
		return Inspection{}, err
	}
	insp.UrgencyFactors = d.Factors
	insp.Actions = d.Actions
	if completedAt.Valid {
		t := completedAt.Time
		insp.CompletedAt = &t
	}
	if sentAt.Valid {
		t := sentAt.Time
		insp.SentAt = &t
	}
	return insp, nil
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var condition, level string
	var measurements, detail, recommendation []byte
	var cost sql.NullFloat64
	err := row.Scan(
		&item.ID,
		&item.InspectionID,
		&item.ItemType,
		&condition,
		&measurements,
		&item.Notes,
		&item.Priority,
		&level,
		&item.UrgencyScore,
		&detail,
		&cost,
		&recommendation,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	item.Condition = scoring.Condition(condition)
	item.UrgencyLevel = urgency.Level(level)
	if len(measurements) > 0 {
		if err := json.Unmarshal(measurements, &item.Measurements); err != nil {
			return Item{}, fmt.Errorf("decode measurements: %w", err)
		}
	}
	d, err := decodeDetail(detail)
	if err != nil {
		return Item{}, err
	}
	item.Factors = d.Factors
	item.Actions = d.Actions
	if cost.Valid {
		v := cost.Float64
		item.EstimatedCost = &v
	}
	if len(recommendation) > 0 {
		var rec recommendations.Result
		if err := json.Unmarshal(recommendation, &rec); err != nil {
			return Item{}, fmt.Errorf("decode recommendation: %w", err)
		}
		item.Recommendation = &rec
	}
	return item, nil
}

func decodeDetail(raw []byte) (urgencyDetail, error) {
	d := urgencyDetail{Factors: []string{}, Actions: []string{}}
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return urgencyDetail{}, fmt.Errorf("decode urgency detail: %w", err)
	}
	if d.Factors == nil {
		d.Factors = []string{}
	}
	if d.Actions == nil {
		d.Actions = []string{}
	}
	return d, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
