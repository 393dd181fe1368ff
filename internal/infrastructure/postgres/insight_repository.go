package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"spine/internal/domain/insight"
)

type InsightRepository struct {
	db *DB
}

func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

func (r *InsightRepository) Upsert(ctx context.Context, in *insight.Insight) (*insight.Insight, error) {
	healthJSON, err := json.Marshal(in.HealthSummary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode health summary: %w", err)
	}
	spendingJSON, err := json.Marshal(in.SpendingSummary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode spending summary: %w", err)
	}

	insights := in.Insights
	if insights == nil {
		insights = []string{}
	}

	query := `
		INSERT INTO behavioral_insights (id, user_id, date, risk_score, insights, health_summary, spending_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			risk_score = EXCLUDED.risk_score,
			insights = EXCLUDED.insights,
			health_summary = EXCLUDED.health_summary,
			spending_summary = EXCLUDED.spending_summary,
			created_at = NOW()
		RETURNING id, created_at
	`

	saved := *in
	saved.Insights = insights
	err = r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.UserID, in.Date.Format(time.DateOnly), in.RiskScore,
		pq.Array(insights), healthJSON, spendingJSON,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert insight: %w", err)
	}

	return &saved, nil
}

func (r *InsightRepository) Latest(ctx context.Context, userID string) (*insight.Insight, error) {
	query := `
		SELECT id, user_id, date, risk_score, insights, health_summary, spending_summary, created_at
		FROM behavioral_insights
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	var in insight.Insight
	var healthJSON, spendingJSON []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&in.ID, &in.UserID, &in.Date, &in.RiskScore, pq.Array(&in.Insights),
		&healthJSON, &spendingJSON, &in.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest insight: %w", err)
	}

	if err := json.Unmarshal(healthJSON, &in.HealthSummary); err != nil {
		return nil, fmt.Errorf("failed to decode health summary: %w", err)
	}
	if err := json.Unmarshal(spendingJSON, &in.SpendingSummary); err != nil {
		return nil, fmt.Errorf("failed to decode spending summary: %w", err)
	}

	return &in, nil
}
