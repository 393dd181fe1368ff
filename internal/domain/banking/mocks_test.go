package banking

import (
	"context"

	"spine/internal/domain/transaction"
	"spine/internal/infrastructure/plaid"
)

type MockPlaidClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, userID string) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error)
	GetItemFunc             func(ctx context.Context, accessToken string) (*plaid.Item, error)
	GetInstitutionNameFunc  func(ctx context.Context, institutionID string) (string, error)
	SyncTransactionsFunc    func(ctx context.Context, accessToken, cursor string) (*plaid.SyncResponse, error)
}

var _ plaid.ClientInterface = (*MockPlaidClient)(nil)

func (m *MockPlaidClient) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, userID)
	}
	return "", nil
}

func (m *MockPlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaid.ExchangeResponse{}, nil
}

func (m *MockPlaidClient) GetItem(ctx context.Context, accessToken string) (*plaid.Item, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, accessToken)
	}
	return &plaid.Item{}, nil
}

func (m *MockPlaidClient) GetInstitutionName(ctx context.Context, institutionID string) (string, error) {
	if m.GetInstitutionNameFunc != nil {
		return m.GetInstitutionNameFunc(ctx, institutionID)
	}
	return "", nil
}

func (m *MockPlaidClient) SyncTransactions(ctx context.Context, accessToken, cursor string) (*plaid.SyncResponse, error) {
	if m.SyncTransactionsFunc != nil {
		return m.SyncTransactionsFunc(ctx, accessToken, cursor)
	}
	return &plaid.SyncResponse{}, nil
}

type MockLinkRepository struct {
	CreateFunc       func(ctx context.Context, link *Link) (*Link, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*Link, error)
	UpdateCursorFunc func(ctx context.Context, linkID, cursor string) error
}

func (m *MockLinkRepository) Create(ctx context.Context, link *Link) (*Link, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, link)
	}
	return link, nil
}

func (m *MockLinkRepository) ListByUserID(ctx context.Context, userID string) ([]*Link, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockLinkRepository) UpdateCursor(ctx context.Context, linkID, cursor string) error {
	if m.UpdateCursorFunc != nil {
		return m.UpdateCursorFunc(ctx, linkID, cursor)
	}
	return nil
}

// memoryStore mimics the conflict-on-external-id behaviour of the real table.
type memoryStore struct {
	rows      map[string]*transaction.Transaction
	upsertErr error
	failOn    string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string]*transaction.Transaction{}}
}

func (m *memoryStore) UpsertByExternalID(ctx context.Context, tx *transaction.Transaction) (bool, error) {
	if m.upsertErr != nil && *tx.ExternalID == m.failOn {
		return false, m.upsertErr
	}
	_, exists := m.rows[*tx.ExternalID]
	m.rows[*tx.ExternalID] = tx
	return !exists, nil
}

func (m *memoryStore) UpdateByExternalID(ctx context.Context, tx *transaction.Transaction) error {
	if _, ok := m.rows[*tx.ExternalID]; ok {
		m.rows[*tx.ExternalID] = tx
	}
	return nil
}

func (m *memoryStore) DeleteByExternalIDs(ctx context.Context, externalIDs []string) error {
	for _, id := range externalIDs {
		delete(m.rows, id)
	}
	return nil
}
