package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spine/internal/shared/money"
	"spine/internal/shared/validation"
)

const (
	SourceManual = "manual"
	SourcePlaid  = "plaid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction is a single money movement. Amounts are integer minor units;
// positive values are spending, negative values are refunds or income.
type Transaction struct {
	ID           string
	UserID       string
	ExternalID   *string // provider transaction id; nil for manual rows
	AmountCents  int64
	PostedAt     time.Time
	MerchantName string
	Category     []string
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Amount returns the amount in major units.
func (t *Transaction) Amount() decimal.Decimal {
	return money.FromCents(t.AmountCents)
}

type CreateManualParams struct {
	UserID      string
	Description string
	Amount      decimal.Decimal
	PostedAt    string // YYYY-MM-DD
	Category    *string
}

// Validate checks the params and returns the parsed posted date.
func (p CreateManualParams) Validate() (time.Time, error) {
	if p.UserID == "" {
		return time.Time{}, validation.New("Missing user_id")
	}
	if strings.TrimSpace(p.Description) == "" {
		return time.Time{}, validation.New("Description is required")
	}
	if p.Amount.IsZero() {
		return time.Time{}, validation.New("Amount must not be zero")
	}
	if p.Amount.Abs().GreaterThan(money.MaxManualAmount) {
		return time.Time{}, validation.New("Amount must not exceed 1,000,000,000")
	}
	if p.PostedAt == "" {
		return time.Time{}, validation.New("Date is required")
	}
	postedAt, err := time.Parse(time.DateOnly, p.PostedAt)
	if err != nil {
		return time.Time{}, validation.New("Date must be in YYYY-MM-DD format")
	}
	return postedAt, nil
}
