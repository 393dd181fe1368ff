package banking

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"spine/internal/domain/transaction"
	"spine/internal/infrastructure/plaid"
	"spine/internal/shared/logger"
	"spine/internal/shared/money"
	"spine/internal/shared/validation"
)

var (
	syncTracer      = otel.Tracer("spine/sync")
	syncMeter       = otel.Meter("spine/sync")
	syncPages, _    = syncMeter.Int64Counter("sync.pages.total", metric.WithDescription("Transaction sync pages by outcome"))
	syncChanges, _  = syncMeter.Int64Counter("sync.changes.total", metric.WithDescription("Transaction changes applied by kind"))
	syncLinkRuns, _ = syncMeter.Int64Counter("sync.links.total", metric.WithDescription("Bank link sync runs by outcome"))
)

type syncState int

const (
	stateFetchPage syncState = iota
	stateApplyChanges
	statePersistCursor
	stateDone
)

func (s syncState) String() string {
	switch s {
	case stateFetchPage:
		return "fetch_page"
	case stateApplyChanges:
		return "apply_changes"
	case statePersistCursor:
		return "persist_cursor"
	default:
		return "done"
	}
}

// SyncResult aggregates one pass over all of a user's links.
type SyncResult struct {
	LinksSynced    int
	LinksAbandoned int
	Pages          int
	Added          int // rows newly inserted; re-delivered rows are not counted
	Modified       int
	Removed        int
}

// TransactionSyncService drains the provider's delta feed into the store.
// Links are processed one after another and pages strictly in order.
type TransactionSyncService struct {
	client       plaid.ClientInterface
	links        LinkRepository
	transactions TransactionStore
}

func NewTransactionSyncService(client plaid.ClientInterface, links LinkRepository, transactions TransactionStore) *TransactionSyncService {
	return &TransactionSyncService{client: client, links: links, transactions: transactions}
}

// SyncUser runs one pass for every link the user owns.
//
// A failed fetch aborts the whole pass and is returned. A failed apply or
// cursor write abandons only the current link: the cursor stays where it was,
// so the same page is delivered again next time and re-applied by upsert.
func (s *TransactionSyncService) SyncUser(ctx context.Context, userID string) (*SyncResult, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}

	links, err := s.links.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank connections: %w", err)
	}
	if len(links) == 0 {
		return nil, ErrNoBanksConnected
	}

	result := &SyncResult{}
	for _, link := range links {
		if err := s.syncLink(ctx, link, result); err != nil {
			return nil, err
		}
	}

	l := logger.FromContext(ctx)
	l.Info().
		Str("user_id", userID).
		Int("links", len(links)).
		Int("abandoned", result.LinksAbandoned).
		Int("pages", result.Pages).
		Int("added", result.Added).
		Int("modified", result.Modified).
		Int("removed", result.Removed).
		Msg("transaction sync completed")

	return result, nil
}

func (s *TransactionSyncService) syncLink(ctx context.Context, link *Link, result *SyncResult) error {
	ctx, span := syncTracer.Start(ctx, "sync.link")
	defer span.End()
	span.SetAttributes(attribute.String("link.id", link.ID))

	l := logger.FromContext(ctx).With().Str("link_id", link.ID).Logger()

	cursor := link.Cursor
	var page *plaid.SyncResponse
	state := stateFetchPage

	for state != stateDone {
		switch state {
		case stateFetchPage:
			p, err := s.client.SyncTransactions(ctx, link.AccessToken, cursor)
			if err != nil {
				syncPages.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "fetch_failed")))
				syncLinkRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "aborted")))
				span.RecordError(err)
				span.SetStatus(codes.Error, "fetch failed")
				return fmt.Errorf("failed to fetch transactions for link %s: %w", link.ID, err)
			}
			page = p
			result.Pages++
			state = stateApplyChanges

		case stateApplyChanges:
			if err := s.applyPage(ctx, link.UserID, page, result); err != nil {
				l.Error().Err(err).Str("state", state.String()).Msg("abandoning link for this pass")
				s.abandon(ctx, result, "apply_failed")
				span.RecordError(err)
				return nil
			}
			state = statePersistCursor

		case statePersistCursor:
			if err := s.links.UpdateCursor(ctx, link.ID, page.NextCursor); err != nil {
				l.Error().Err(err).Str("state", state.String()).Msg("abandoning link for this pass")
				s.abandon(ctx, result, "cursor_failed")
				span.RecordError(err)
				return nil
			}
			syncPages.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "applied")))
			cursor = page.NextCursor
			if page.HasMore {
				state = stateFetchPage
			} else {
				state = stateDone
			}
		}
	}

	result.LinksSynced++
	syncLinkRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "synced")))
	return nil
}

func (s *TransactionSyncService) abandon(ctx context.Context, result *SyncResult, outcome string) {
	result.LinksAbandoned++
	syncPages.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	syncLinkRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "abandoned")))
}

// applyPage writes added, then modified, then removed. It stops at the
// first failure.
func (s *TransactionSyncService) applyPage(ctx context.Context, userID string, page *plaid.SyncResponse, result *SyncResult) error {
	ctx, span := syncTracer.Start(ctx, "sync.apply_page")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page.added", len(page.Added)),
		attribute.Int("page.modified", len(page.Modified)),
		attribute.Int("page.removed", len(page.Removed)),
	)

	for i := range page.Added {
		tx, err := toTransaction(userID, &page.Added[i])
		if err != nil {
			return err
		}
		inserted, err := s.transactions.UpsertByExternalID(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to upsert transaction %s: %w", page.Added[i].TransactionID, err)
		}
		if inserted {
			result.Added++
			syncChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "added")))
		}
	}

	for i := range page.Modified {
		tx, err := toTransaction(userID, &page.Modified[i])
		if err != nil {
			return err
		}
		if err := s.transactions.UpdateByExternalID(ctx, tx); err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", page.Modified[i].TransactionID, err)
		}
		result.Modified++
		syncChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "modified")))
	}

	if len(page.Removed) > 0 {
		ids := make([]string, len(page.Removed))
		for i, r := range page.Removed {
			ids[i] = r.TransactionID
		}
		if err := s.transactions.DeleteByExternalIDs(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete %d removed transactions: %w", len(ids), err)
		}
		result.Removed += len(ids)
		syncChanges.Add(ctx, int64(len(ids)), metric.WithAttributes(attribute.String("kind", "removed")))
	}

	return nil
}

func toTransaction(userID string, p *plaid.Transaction) (*transaction.Transaction, error) {
	postedAt, err := p.PostedDate()
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", p.TransactionID, err)
	}

	externalID := p.TransactionID
	category := p.Category
	if category == nil {
		category = []string{}
	}

	return &transaction.Transaction{
		UserID:       userID,
		ExternalID:   &externalID,
		AmountCents:  money.ToCents(p.Amount),
		PostedAt:     postedAt,
		MerchantName: p.DisplayName(),
		Category:     category,
		Source:       transaction.SourcePlaid,
	}, nil
}
