package transaction

import (
	"context"
)

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, tx *Transaction) (*Transaction, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error)
	// Delete removes a row owned by userID. Returns ErrTransactionNotFound when
	// no such row exists for that user.
	Delete(ctx context.Context, userID, id string) error
	// Update overwrites the editable fields of the row matching tx.ID and
	// tx.UserID. Returns ErrTransactionNotFound when no such row exists.
	Update(ctx context.Context, tx *Transaction) (*Transaction, error)
}
