package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"spine/internal/domain/banking"
	"spine/internal/infrastructure/crypto"
)

// BankLinkRepository stores links in plaid_items. Access tokens are sealed
// with the Encryptor on write and opened on read.
type BankLinkRepository struct {
	db  *DB
	enc *crypto.Encryptor
}

func NewBankLinkRepository(db *DB, enc *crypto.Encryptor) *BankLinkRepository {
	return &BankLinkRepository{db: db, enc: enc}
}

func (r *BankLinkRepository) Create(ctx context.Context, link *banking.Link) (*banking.Link, error) {
	sealed, err := r.enc.Encrypt(link.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO plaid_items (id, user_id, access_token, item_id, institution_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	created := *link
	created.ID = uuid.NewString()
	err = r.db.QueryRowContext(ctx, query,
		created.ID, created.UserID, sealed, created.ItemID, created.InstitutionName,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank link: %w", err)
	}

	return &created, nil
}

func (r *BankLinkRepository) ListByUserID(ctx context.Context, userID string) ([]*banking.Link, error) {
	query := `
		SELECT id, user_id, access_token, item_id, institution_name, COALESCE(cursor, ''), created_at
		FROM plaid_items
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	defer rows.Close()

	var links []*banking.Link
	for rows.Next() {
		var l banking.Link
		var sealed string
		if err := rows.Scan(&l.ID, &l.UserID, &sealed, &l.ItemID, &l.InstitutionName, &l.Cursor, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank link: %w", err)
		}
		if l.AccessToken, err = r.enc.Decrypt(sealed); err != nil {
			return nil, fmt.Errorf("failed to decrypt access token for link %s: %w", l.ID, err)
		}
		links = append(links, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank links: %w", err)
	}

	return links, nil
}

func (r *BankLinkRepository) UpdateCursor(ctx context.Context, linkID, cursor string) error {
	query := `
		UPDATE plaid_items
		SET cursor = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, linkID, cursor)
	if err != nil {
		return fmt.Errorf("failed to update cursor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bank link %s not found", linkID)
	}

	return nil
}
