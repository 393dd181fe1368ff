package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"spine/internal/domain/transaction"
)

type TransactionHandler struct {
	service *transaction.Service
}

func NewTransactionHandler(service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type createManualRequest struct {
	UserID      string          `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PostedAt    string          `json:"posted_at"`
	Category    *string         `json:"category,omitempty"`
}

// HandleListTransactions returns the user's transactions, newest first.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	offset := 0
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	txs, err := h.service.List(r.Context(), q.Get("user_id"), limit, offset)
	if err != nil {
		respondError(w, r, err, "Failed to list transactions")
		return
	}

	data := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		data = append(data, toTransactionResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// HandleCreateManual records a user-entered transaction.
func (h *TransactionHandler) HandleCreateManual(w http.ResponseWriter, r *http.Request) {
	var req createManualRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, err := h.service.CreateManual(r.Context(), transaction.CreateManualParams{
		UserID:      req.UserID,
		Description: req.Description,
		Amount:      req.Amount,
		PostedAt:    req.PostedAt,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, r, err, "Failed to add transaction")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    toTransactionResponse(created),
	})
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), r.URL.Query().Get("user_id"), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, "Failed to delete transaction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleUpdateTransaction edits a transaction the requesting user owns. The
// body has the same shape and rules as a manual create.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createManualRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.service.Update(r.Context(), req.UserID, chi.URLParam(r, "id"), transaction.CreateManualParams{
		Description: req.Description,
		Amount:      req.Amount,
		PostedAt:    req.PostedAt,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, r, err, "Failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    toTransactionResponse(updated),
	})
}
