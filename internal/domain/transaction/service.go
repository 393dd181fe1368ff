package transaction

import (
	"context"
	"strings"

	"spine/internal/shared/money"
	"spine/internal/shared/validation"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateManual records a user-entered transaction.
func (s *Service) CreateManual(ctx context.Context, params CreateManualParams) (*Transaction, error) {
	postedAt, err := params.Validate()
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Transaction{
		UserID:       params.UserID,
		AmountCents:  money.ToCents(params.Amount),
		PostedAt:     postedAt,
		MerchantName: strings.TrimSpace(params.Description),
		Category:     normalizeCategory(params.Category),
		Source:       SourceManual,
	})
}

// Update edits the description, amount, date and category of a transaction
// the user owns. The params go through the same checks as CreateManual; a
// nil category clears it.
func (s *Service) Update(ctx context.Context, userID, id string, params CreateManualParams) (*Transaction, error) {
	if id == "" {
		return nil, validation.New("Missing transaction id")
	}
	params.UserID = userID
	postedAt, err := params.Validate()
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, &Transaction{
		ID:           id,
		UserID:       userID,
		AmountCents:  money.ToCents(params.Amount),
		PostedAt:     postedAt,
		MerchantName: strings.TrimSpace(params.Description),
		Category:     normalizeCategory(params.Category),
	})
}

func normalizeCategory(c *string) []string {
	if c == nil || strings.TrimSpace(*c) == "" {
		return nil
	}
	return []string{strings.TrimSpace(*c)}
}

// List returns the user's transactions, newest first. A non-positive limit
// falls back to DefaultListLimit; larger limits are capped.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return validation.New("Missing user_id")
	}
	if id == "" {
		return validation.New("Missing transaction id")
	}
	return s.repo.Delete(ctx, userID, id)
}
