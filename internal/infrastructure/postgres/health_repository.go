package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spine/internal/domain/health"
)

type HealthRepository struct {
	db *DB
}

func NewHealthRepository(db *DB) *HealthRepository {
	return &HealthRepository{db: db}
}

const healthColumns = `id, user_id, date, sleep_hours, hrv_avg, active_energy, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHealthRecord(row rowScanner) (*health.Record, error) {
	var rec health.Record
	var sleep, hrv sql.NullFloat64
	var activity sql.NullInt64

	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &sleep, &hrv, &activity, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	if sleep.Valid {
		rec.SleepHours = &sleep.Float64
	}
	if hrv.Valid {
		rec.HRV = &hrv.Float64
	}
	if activity.Valid {
		a := int(activity.Int64)
		rec.Activity = &a
	}
	return &rec, nil
}

func (r *HealthRepository) Upsert(ctx context.Context, record *health.Record) (*health.Record, error) {
	query := `
		INSERT INTO health_data (id, user_id, date, sleep_hours, hrv_avg, active_energy)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET
			sleep_hours = EXCLUDED.sleep_hours,
			hrv_avg = EXCLUDED.hrv_avg,
			active_energy = EXCLUDED.active_energy,
			updated_at = NOW()
		RETURNING ` + healthColumns

	var activity sql.NullInt64
	if record.Activity != nil {
		activity = sql.NullInt64{Int64: int64(*record.Activity), Valid: true}
	}

	saved, err := scanHealthRecord(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), record.UserID, record.Date.Format(time.DateOnly),
		record.SleepHours, record.HRV, activity,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert health record: %w", err)
	}
	return saved, nil
}

func (r *HealthRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*health.Record, error) {
	query := `
		SELECT ` + healthColumns + `
		FROM health_data
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, since.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	defer rows.Close()

	var records []*health.Record
	for rows.Next() {
		rec, err := scanHealthRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health records: %w", err)
	}

	return records, nil
}
