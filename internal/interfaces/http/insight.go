package http

import (
	"context"
	"net/http"

	"spine/internal/domain/insight"
)

type InsightHandler struct {
	service *insight.Service
}

func NewInsightHandler(service *insight.Service) *InsightHandler {
	return &InsightHandler{service: service}
}

type userRequest struct {
	UserID string `json:"user_id"`
}

// HandleCalculate scores the user's trailing week and stores the snapshot.
// Scoring runs to completion even if the client goes away.
func (h *InsightHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	saved, err := h.service.Calculate(context.WithoutCancel(r.Context()), req.UserID)
	if err != nil {
		respondError(w, r, err, "Failed to calculate insights")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"risk_score": saved.RiskScore,
		"insights":   saved.Insights,
		"data":       toInsightResponse(saved),
	})
}

// HandleLatest returns the most recent snapshot for a user.
func (h *InsightHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.service.Latest(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch insights")
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "No insights found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    toInsightResponse(latest),
	})
}
