package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"spine/internal/domain/transaction"
)

// xmax is 0 only for freshly inserted tuples, which tells an insert from a
// conflict update.
const upsertByExternalIDQuery = `
	INSERT INTO transactions (id, user_id, plaid_transaction_id, amount_cents, posted_at, merchant_name, category, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (plaid_transaction_id) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		amount_cents = EXCLUDED.amount_cents,
		posted_at = EXCLUDED.posted_at,
		merchant_name = EXCLUDED.merchant_name,
		category = EXCLUDED.category,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted
`

const updateOwnedQuery = `
	UPDATE transactions
	SET amount_cents = $3, posted_at = $4, merchant_name = $5, category = $6, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING plaid_transaction_id, source, created_at, updated_at
`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func categoryOrEmpty(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}

func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, plaid_transaction_id, amount_cents, posted_at, merchant_name, category, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	created := *tx
	created.ID = uuid.NewString()
	created.Category = categoryOrEmpty(tx.Category)

	var externalID sql.NullString
	if tx.ExternalID != nil {
		externalID = sql.NullString{String: *tx.ExternalID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		created.ID, created.UserID, externalID, created.AmountCents,
		created.PostedAt.Format(time.DateOnly), created.MerchantName,
		pq.Array(created.Category), created.Source,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &created, nil
}

// UpsertByExternalID reports whether the row was inserted rather than updated.
func (r *TransactionRepository) UpsertByExternalID(ctx context.Context, tx *transaction.Transaction) (bool, error) {
	if tx.ExternalID == nil {
		return false, fmt.Errorf("upsert requires an external id")
	}

	var inserted bool
	err := r.db.QueryRowContext(ctx, upsertByExternalIDQuery,
		uuid.NewString(), tx.UserID, *tx.ExternalID, tx.AmountCents,
		tx.PostedAt.Format(time.DateOnly), tx.MerchantName,
		pq.Array(categoryOrEmpty(tx.Category)), tx.Source,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert transaction: %w", err)
	}

	return inserted, nil
}

// UpdateByExternalID overwrites provider fields. A missing row is not an error.
func (r *TransactionRepository) UpdateByExternalID(ctx context.Context, tx *transaction.Transaction) error {
	if tx.ExternalID == nil {
		return fmt.Errorf("update requires an external id")
	}

	query := `
		UPDATE transactions
		SET amount_cents = $2, posted_at = $3, merchant_name = $4, category = $5, updated_at = NOW()
		WHERE plaid_transaction_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		*tx.ExternalID, tx.AmountCents, tx.PostedAt.Format(time.DateOnly),
		tx.MerchantName, pq.Array(categoryOrEmpty(tx.Category)),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) DeleteByExternalIDs(ctx context.Context, externalIDs []string) error {
	if len(externalIDs) == 0 {
		return nil
	}

	query := `DELETE FROM transactions WHERE plaid_transaction_id = ANY($1)`

	if _, err := r.db.ExecContext(ctx, query, pq.Array(externalIDs)); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, plaid_transaction_id, amount_cents, posted_at, merchant_name, category, source, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY posted_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		var externalID sql.NullString
		err := rows.Scan(
			&t.ID, &t.UserID, &externalID, &t.AmountCents, &t.PostedAt,
			&t.MerchantName, pq.Array(&t.Category), &t.Source, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if externalID.Valid {
			t.ExternalID = &externalID.String
		}
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return transaction.ErrTransactionNotFound
	}

	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return transaction.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	if _, err := uuid.Parse(tx.ID); err != nil {
		return nil, transaction.ErrTransactionNotFound
	}

	updated := *tx
	updated.Category = categoryOrEmpty(tx.Category)

	var externalID sql.NullString
	err := r.db.QueryRowContext(ctx, updateOwnedQuery,
		tx.ID, tx.UserID, tx.AmountCents, tx.PostedAt.Format(time.DateOnly),
		tx.MerchantName, pq.Array(updated.Category),
	).Scan(&externalID, &updated.Source, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if externalID.Valid {
		updated.ExternalID = &externalID.String
	}

	return &updated, nil
}

func (r *TransactionRepository) SumSpendCents(ctx context.Context, userID string, from time.Time, until *time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = $1
		  AND posted_at >= $2
		  AND ($3::date IS NULL OR posted_at < $3::date)
	`

	var untilArg any
	if until != nil {
		untilArg = until.Format(time.DateOnly)
	}

	var total int64
	err := r.db.QueryRowContext(ctx, query, userID, from.Format(time.DateOnly), untilArg).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum spending: %w", err)
	}
	return total, nil
}
