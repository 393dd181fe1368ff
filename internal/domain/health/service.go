package health

import (
	"context"
	"time"

	"spine/internal/shared/validation"
)

const (
	DefaultRecentDays = 7
	MaxRecentDays     = 90
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Submit validates and stores one day of metrics.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*Record, error) {
	date, err := params.Validate()
	if err != nil {
		return nil, err
	}

	return s.repo.Upsert(ctx, &Record{
		UserID:     params.UserID,
		Date:       date,
		SleepHours: params.SleepHours,
		HRV:        params.HRV,
		Activity:   params.Steps,
	})
}

// Recent returns the user's records for the trailing number of days.
func (s *Service) Recent(ctx context.Context, userID string, days int) ([]*Record, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}
	if days <= 0 {
		days = DefaultRecentDays
	}
	if days > MaxRecentDays {
		days = MaxRecentDays
	}

	today := truncateDay(s.now())
	return s.repo.ListSince(ctx, userID, today.AddDate(0, 0, -days))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
