package http

import (
	"context"
	"time"

	"spine/internal/domain/banking"
	"spine/internal/domain/health"
	"spine/internal/domain/insight"
	"spine/internal/domain/transaction"
	"spine/internal/infrastructure/plaid"
)

// MockHealthRepo implements health.Repository and insight.HealthReader.
type MockHealthRepo struct {
	UpsertFunc    func(ctx context.Context, record *health.Record) (*health.Record, error)
	ListSinceFunc func(ctx context.Context, userID string, since time.Time) ([]*health.Record, error)
}

func (m *MockHealthRepo) Upsert(ctx context.Context, record *health.Record) (*health.Record, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, record)
	}
	saved := *record
	saved.ID = "health-1"
	return &saved, nil
}

func (m *MockHealthRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]*health.Record, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, userID, since)
	}
	return nil, nil
}

type MockInsightRepo struct {
	UpsertFunc func(ctx context.Context, in *insight.Insight) (*insight.Insight, error)
	LatestFunc func(ctx context.Context, userID string) (*insight.Insight, error)
}

func (m *MockInsightRepo) Upsert(ctx context.Context, in *insight.Insight) (*insight.Insight, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, in)
	}
	saved := *in
	saved.ID = "insight-1"
	return &saved, nil
}

func (m *MockInsightRepo) Latest(ctx context.Context, userID string) (*insight.Insight, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, userID)
	}
	return nil, nil
}

type MockSpendingReader struct {
	SumSpendCentsFunc func(ctx context.Context, userID string, from time.Time, until *time.Time) (int64, error)
}

func (m *MockSpendingReader) SumSpendCents(ctx context.Context, userID string, from time.Time, until *time.Time) (int64, error) {
	if m.SumSpendCentsFunc != nil {
		return m.SumSpendCentsFunc(ctx, userID, from, until)
	}
	return 0, nil
}

// MockTransactionRepo implements transaction.Repository and banking.TransactionStore.
type MockTransactionRepo struct {
	CreateFunc              func(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error)
	ListByUserIDFunc        func(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error)
	DeleteFunc              func(ctx context.Context, userID, id string) error
	UpdateFunc              func(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error)
	UpsertByExternalIDFunc  func(ctx context.Context, tx *transaction.Transaction) (bool, error)
	UpdateByExternalIDFunc  func(ctx context.Context, tx *transaction.Transaction) error
	DeleteByExternalIDsFunc func(ctx context.Context, externalIDs []string) error
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	saved := *tx
	saved.ID = "tx-1"
	return &saved, nil
}

func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockTransactionRepo) Update(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx)
	}
	saved := *tx
	saved.Source = transaction.SourceManual
	return &saved, nil
}

func (m *MockTransactionRepo) UpsertByExternalID(ctx context.Context, tx *transaction.Transaction) (bool, error) {
	if m.UpsertByExternalIDFunc != nil {
		return m.UpsertByExternalIDFunc(ctx, tx)
	}
	return true, nil
}

func (m *MockTransactionRepo) UpdateByExternalID(ctx context.Context, tx *transaction.Transaction) error {
	if m.UpdateByExternalIDFunc != nil {
		return m.UpdateByExternalIDFunc(ctx, tx)
	}
	return nil
}

func (m *MockTransactionRepo) DeleteByExternalIDs(ctx context.Context, externalIDs []string) error {
	if m.DeleteByExternalIDsFunc != nil {
		return m.DeleteByExternalIDsFunc(ctx, externalIDs)
	}
	return nil
}

type MockLinkRepo struct {
	CreateFunc       func(ctx context.Context, link *banking.Link) (*banking.Link, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*banking.Link, error)
	UpdateCursorFunc func(ctx context.Context, linkID, cursor string) error
}

func (m *MockLinkRepo) Create(ctx context.Context, link *banking.Link) (*banking.Link, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, link)
	}
	saved := *link
	saved.ID = "link-1"
	return &saved, nil
}

func (m *MockLinkRepo) ListByUserID(ctx context.Context, userID string) ([]*banking.Link, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockLinkRepo) UpdateCursor(ctx context.Context, linkID, cursor string) error {
	if m.UpdateCursorFunc != nil {
		return m.UpdateCursorFunc(ctx, linkID, cursor)
	}
	return nil
}

type MockPlaidClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, userID string) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error)
	GetItemFunc             func(ctx context.Context, accessToken string) (*plaid.Item, error)
	GetInstitutionNameFunc  func(ctx context.Context, institutionID string) (string, error)
	SyncTransactionsFunc    func(ctx context.Context, accessToken, cursor string) (*plaid.SyncResponse, error)
}

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

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
