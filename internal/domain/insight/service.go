package insight

import (
	"context"
	"fmt"
	"time"

	"spine/internal/shared/logger"
	"spine/internal/shared/validation"
)

const windowDays = 7

type Service struct {
	repo     Repository
	health   HealthReader
	spending SpendingReader
	now      func() time.Time
}

func NewService(repo Repository, health HealthReader, spending SpendingReader, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, health: health, spending: spending, now: now}
}

// Calculate scores the trailing week for userID and stores the snapshot
// under today's date, replacing any earlier run from the same day.
func (s *Service) Calculate(ctx context.Context, userID string) (*Insight, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}

	today := truncateDay(s.now())
	weekAgo := today.AddDate(0, 0, -windowDays)
	twoWeeksAgo := today.AddDate(0, 0, -2*windowDays)

	records, err := s.health.ListSince(ctx, userID, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch health data: %w", err)
	}
	if len(records) < minHealthRecords {
		return nil, ErrNotEnoughHealthData
	}

	current, err := s.spending.SumSpendCents(ctx, userID, weekAgo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current spending: %w", err)
	}
	prior, err := s.spending.SumSpendCents(ctx, userID, twoWeeksAgo, &weekAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prior spending: %w", err)
	}

	result, err := Score(Inputs{
		Health:            records,
		CurrentSpendCents: current,
		PriorSpendCents:   prior,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, &Insight{
		UserID:          userID,
		Date:            today,
		RiskScore:       result.RiskScore,
		Insights:        result.Insights,
		HealthSummary:   result.HealthSummary,
		SpendingSummary: result.SpendingSummary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save insights: %w", err)
	}

	l := logger.FromContext(ctx)
	l.Info().
		Str("user_id", userID).
		Int("risk_score", saved.RiskScore).
		Int("health_days", len(records)).
		Msg("risk score calculated")

	return saved, nil
}

func (s *Service) Latest(ctx context.Context, userID string) (*Insight, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}
	return s.repo.Latest(ctx, userID)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
