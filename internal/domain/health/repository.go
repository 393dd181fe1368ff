package health

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert writes the record keyed by (user, date), replacing any earlier
	// submission for that day, and returns the stored row.
	Upsert(ctx context.Context, record *Record) (*Record, error)
	// ListSince returns records dated on or after since, newest first.
	ListSince(ctx context.Context, userID string, since time.Time) ([]*Record, error)
}
