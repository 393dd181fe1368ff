package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"spine/internal/shared/config"
)

const (
	sandboxURL    = "https://sandbox.plaid.com"
	productionURL = "https://production.plaid.com"

	linkTokenCreatePath     = "/link/token/create"
	publicTokenExchangePath = "/item/public_token/exchange"
	itemGetPath             = "/item/get"
	institutionGetPath      = "/institutions/get_by_id"
	transactionsSyncPath    = "/transactions/sync"

	institutionCacheTTL = 24 * time.Hour
)

// Client talks to the Plaid REST API. Institution names are cached in memory
// since they change rarely and every exchange needs one.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	secret       string
	clientName   string
	countryCode  string
	language     string
	syncCount    int
	institutions *cache.Cache
}

var _ ClientInterface = (*Client)(nil)

func NewClient(cfg config.PlaidConfig) *Client {
	baseURL := sandboxURL
	if cfg.Environment == "production" {
		baseURL = productionURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		secret:       cfg.Secret,
		clientName:   cfg.ClientName,
		countryCode:  cfg.CountryCode,
		language:     cfg.Language,
		syncCount:    cfg.SyncCount,
		institutions: cache.New(institutionCacheTTL, time.Hour),
	}
}

// Error is the error body Plaid returns on any non-200 response.
type Error struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("plaid error (status %d): %s %s - %s", e.StatusCode, e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	credentials
	ClientName   string        `json:"client_name"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
	CountryCodes []string      `json:"country_codes"`
	Language     string        `json:"language"`
}

type linkTokenCreateResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

type publicTokenExchangeRequest struct {
	credentials
	PublicToken string `json:"public_token"`
}

// ExchangeResponse carries the long-lived credential for a new item.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type accessTokenRequest struct {
	credentials
	AccessToken string `json:"access_token"`
}

type Item struct {
	ItemID        string  `json:"item_id"`
	InstitutionID *string `json:"institution_id"`
}

type itemGetResponse struct {
	Item      Item   `json:"item"`
	RequestID string `json:"request_id"`
}

type institutionGetRequest struct {
	credentials
	InstitutionID string   `json:"institution_id"`
	CountryCodes  []string `json:"country_codes"`
}

type institutionGetResponse struct {
	Institution struct {
		InstitutionID string `json:"institution_id"`
		Name          string `json:"name"`
	} `json:"institution"`
}

type syncOptions struct {
	Count int `json:"count,omitempty"`
}

type transactionsSyncRequest struct {
	credentials
	AccessToken string       `json:"access_token"`
	Cursor      string       `json:"cursor,omitempty"`
	Options     *syncOptions `json:"options,omitempty"`
}

// Transaction is a posted or pending transaction as delivered by
// /transactions/sync. Positive amounts are money leaving the account.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	IsoCurrencyCode *string         `json:"iso_currency_code"`
	Date            string          `json:"date"`
	Name            string          `json:"name"`
	MerchantName    *string         `json:"merchant_name"`
	Category        []string        `json:"category"`
	Pending         bool            `json:"pending"`
}

// DisplayName prefers the cleaned merchant name over the raw description.
func (t *Transaction) DisplayName() string {
	if t.MerchantName != nil && *t.MerchantName != "" {
		return *t.MerchantName
	}
	return t.Name
}

// PostedDate parses the YYYY-MM-DD date field.
func (t *Transaction) PostedDate() (time.Time, error) {
	d, err := time.Parse(time.DateOnly, t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date '%s': %w", t.Date, err)
	}
	return d, nil
}

type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// SyncResponse is one page of the delta feed.
type SyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
	RequestID  string               `json:"request_id"`
}

func (c *Client) creds() credentials {
	return credentials{ClientID: c.clientID, Secret: c.secret}
}

// CreateLinkToken returns a short-lived token the client UI uses to start Link.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	req := linkTokenCreateRequest{
		credentials:  c.creds(),
		ClientName:   c.clientName,
		User:         linkTokenUser{ClientUserID: userID},
		Products:     []string{"transactions"},
		CountryCodes: []string{c.countryCode},
		Language:     c.language,
	}

	var resp linkTokenCreateResponse
	if err := c.post(ctx, linkTokenCreatePath, req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	req := publicTokenExchangeRequest{credentials: c.creds(), PublicToken: publicToken}

	var resp ExchangeResponse
	if err := c.post(ctx, publicTokenExchangePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetItem(ctx context.Context, accessToken string) (*Item, error) {
	req := accessTokenRequest{credentials: c.creds(), AccessToken: accessToken}

	var resp itemGetResponse
	if err := c.post(ctx, itemGetPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// GetInstitutionName resolves an institution id to its display name.
func (c *Client) GetInstitutionName(ctx context.Context, institutionID string) (string, error) {
	if name, ok := c.institutions.Get(institutionID); ok {
		return name.(string), nil
	}

	req := institutionGetRequest{
		credentials:   c.creds(),
		InstitutionID: institutionID,
		CountryCodes:  []string{c.countryCode},
	}

	var resp institutionGetResponse
	if err := c.post(ctx, institutionGetPath, req, &resp); err != nil {
		return "", err
	}

	c.institutions.SetDefault(institutionID, resp.Institution.Name)
	return resp.Institution.Name, nil
}

// SyncTransactions fetches the page that follows cursor. An empty cursor
// starts from the beginning of the item's history.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error) {
	req := transactionsSyncRequest{
		credentials: c.creds(),
		AccessToken: accessToken,
		Cursor:      cursor,
	}
	if c.syncCount > 0 {
		req.Options = &syncOptions{Count: c.syncCount}
	}

	var resp SyncResponse
	if err := c.post(ctx, transactionsSyncPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		plaidErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, plaidErr); err != nil || plaidErr.ErrorCode == "" {
			return fmt.Errorf("plaid request %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
		}
		return plaidErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
