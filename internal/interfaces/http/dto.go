package http

import (
	"time"

	"spine/internal/domain/banking"
	"spine/internal/domain/health"
	"spine/internal/domain/insight"
	"spine/internal/domain/transaction"
	"spine/internal/shared/money"
)

type healthRecordResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	SleepHours *float64  `json:"sleep_hours"`
	HRVAvg     *float64  `json:"hrv_avg"`
	Activity   *int      `json:"active_energy"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toHealthRecordResponse(r *health.Record) healthRecordResponse {
	return healthRecordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       r.Date.Format(time.DateOnly),
		SleepHours: r.SleepHours,
		HRVAvg:     r.HRV,
		Activity:   r.Activity,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type insightResponse struct {
	insight.Insight
	Date string `json:"date"`
}

func toInsightResponse(in *insight.Insight) insightResponse {
	return insightResponse{Insight: *in, Date: in.Date.Format(time.DateOnly)}
}

type transactionResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PlaidTransactionID *string   `json:"plaid_transaction_id"`
	Amount             string    `json:"amount"`
	AmountCents        int64     `json:"amount_cents"`
	PostedAt           string    `json:"posted_at"`
	MerchantName       string    `json:"merchant_name"`
	Category           []string  `json:"category"`
	Source             string    `json:"source"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTransactionResponse(t *transaction.Transaction) transactionResponse {
	category := t.Category
	if category == nil {
		category = []string{}
	}
	return transactionResponse{
		ID:                 t.ID,
		UserID:             t.UserID,
		PlaidTransactionID: t.ExternalID,
		Amount:             money.Format(t.AmountCents),
		AmountCents:        t.AmountCents,
		PostedAt:           t.PostedAt.Format(time.DateOnly),
		MerchantName:       t.MerchantName,
		Category:           category,
		Source:             t.Source,
		CreatedAt:          t.CreatedAt,
	}
}

// bankLinkResponse omits the access token.
type bankLinkResponse struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	InstitutionName string    `json:"institution_name"`
	CreatedAt       time.Time `json:"created_at"`
}

func toBankLinkResponse(l *banking.Link) bankLinkResponse {
	return bankLinkResponse{
		ID:              l.ID,
		ItemID:          l.ItemID,
		InstitutionName: l.InstitutionName,
		CreatedAt:       l.CreatedAt,
	}
}
