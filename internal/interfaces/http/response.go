package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spine/internal/domain/banking"
	"spine/internal/domain/insight"
	"spine/internal/domain/transaction"
	"spine/internal/shared/logger"
	"spine/internal/shared/validation"
)

const (
	msgNoBanksConnected   = "No banks connected"
	msgNotEnoughHealth    = "Not enough health data. Need at least 3 days of data."
	msgTransactionMissing = "Transaction not found"
	msgInvalidBody        = "Invalid request body"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps domain errors to a status and message. Anything unknown is
// logged and reported with the caller's generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if verr, ok := validation.As(err); ok {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	switch {
	case errors.Is(err, banking.ErrNoBanksConnected):
		writeError(w, http.StatusBadRequest, msgNoBanksConnected)
	case errors.Is(err, insight.ErrNotEnoughHealthData):
		writeError(w, http.StatusBadRequest, msgNotEnoughHealth)
	case errors.Is(err, transaction.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, msgTransactionMissing)
	default:
		l := logger.FromContext(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
