package banking

import (
	"context"

	"spine/internal/domain/transaction"
)

type LinkRepository interface {
	Create(ctx context.Context, link *Link) (*Link, error)
	ListByUserID(ctx context.Context, userID string) ([]*Link, error)
	UpdateCursor(ctx context.Context, linkID, cursor string) error
}

// TransactionStore applies provider deltas keyed by external id.
type TransactionStore interface {
	// UpsertByExternalID inserts or overwrites the row and reports whether a
	// new row was created.
	UpsertByExternalID(ctx context.Context, tx *transaction.Transaction) (bool, error)
	UpdateByExternalID(ctx context.Context, tx *transaction.Transaction) error
	DeleteByExternalIDs(ctx context.Context, externalIDs []string) error
}
