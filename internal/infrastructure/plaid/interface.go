package plaid

import (
	"context"
)

// ClientInterface is the slice of the Plaid API the service depends on.
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetItem(ctx context.Context, accessToken string) (*Item, error)
	GetInstitutionName(ctx context.Context, institutionID string) (string, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error)
}
