package insight

import (
	"context"
	"time"

	"spine/internal/domain/health"
)

type Repository interface {
	// Upsert overwrites any snapshot for the same (user, date).
	Upsert(ctx context.Context, in *Insight) (*Insight, error)
	// Latest returns the most recent snapshot, or nil when there is none.
	Latest(ctx context.Context, userID string) (*Insight, error)
}

type HealthReader interface {
	ListSince(ctx context.Context, userID string, since time.Time) ([]*health.Record, error)
}

type SpendingReader interface {
	// SumSpendCents totals amounts posted on or after from. A nil until means
	// no upper bound; otherwise until is exclusive.
	SumSpendCents(ctx context.Context, userID string, from time.Time, until *time.Time) (int64, error)
}
