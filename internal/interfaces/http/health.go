package http

import (
	"net/http"
	"strconv"

	"spine/internal/domain/health"
)

type HealthHandler struct {
	service *health.Service
}

func NewHealthHandler(service *health.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

type submitHealthRequest struct {
	UserID     string   `json:"user_id"`
	Date       string   `json:"date"`
	SleepHours *float64 `json:"sleep_hours"`
	HRV        *float64 `json:"hrv"`
	Steps      *int     `json:"steps"`
}

// HandleSubmit stores one day of health metrics.
func (h *HealthHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitHealthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	record, err := h.service.Submit(r.Context(), health.SubmitParams{
		UserID:     req.UserID,
		Date:       req.Date,
		SleepHours: req.SleepHours,
		HRV:        req.HRV,
		Steps:      req.Steps,
	})
	if err != nil {
		respondError(w, r, err, "Failed to save health data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Health data saved successfully",
		"data":    toHealthRecordResponse(record),
	})
}

// HandleListRecords returns the trailing days of health records.
func (h *HealthHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			days = parsed
		}
	}

	records, err := h.service.Recent(r.Context(), r.URL.Query().Get("user_id"), days)
	if err != nil {
		respondError(w, r, err, "Failed to fetch health data")
		return
	}

	data := make([]healthRecordResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, toHealthRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}
