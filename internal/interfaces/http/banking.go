package http

import (
	"context"
	"net/http"

	"spine/internal/domain/banking"
)

type BankingHandler struct {
	links *banking.LinkService
	sync  *banking.TransactionSyncService
}

func NewBankingHandler(links *banking.LinkService, sync *banking.TransactionSyncService) *BankingHandler {
	return &BankingHandler{links: links, sync: sync}
}

type exchangeTokenRequest struct {
	PublicToken string `json:"public_token"`
	UserID      string `json:"user_id"`
}

func (h *BankingHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.links.CreateLinkToken(r.Context(), req.UserID)
	if err != nil {
		respondError(w, r, err, "Failed to create link token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"link_token": token,
	})
}

func (h *BankingHandler) HandleExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	name, err := h.links.ExchangePublicToken(context.WithoutCancel(r.Context()), req.PublicToken, req.UserID)
	if err != nil {
		respondError(w, r, err, "Failed to exchange token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"institution_name": name,
	})
}

// HandleSyncTransactions pulls new provider activity for every linked item.
// The pass is detached from client cancellation so cursors stay consistent.
func (h *BankingHandler) HandleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.sync.SyncUser(context.WithoutCancel(r.Context()), req.UserID)
	if err != nil {
		respondError(w, r, err, "Failed to sync transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"transactions_added": result.Added,
	})
}

func (h *BankingHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.ListLinks(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch bank connections")
		return
	}

	items := make([]bankLinkResponse, 0, len(links))
	for _, l := range links {
		items = append(items, toBankLinkResponse(l))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   items,
	})
}
