package insight

import (
	"errors"
	"time"
)

var ErrNotEnoughHealthData = errors.New("not enough health data")

// Insight is the stored risk snapshot for one user and day.
type Insight struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Date            time.Time       `json:"-"`
	RiskScore       int             `json:"risk_score"`
	Insights        []string        `json:"insights"`
	HealthSummary   HealthSummary   `json:"health_summary"`
	SpendingSummary SpendingSummary `json:"spending_summary"`
	CreatedAt       time.Time       `json:"created_at"`
}

// HealthSummary holds rounded averages as display strings.
type HealthSummary struct {
	AvgSleep    string `json:"avg_sleep"`
	AvgHRV      string `json:"avg_hrv"`
	AvgActivity string `json:"avg_activity"`
}

// SpendingSummary holds window totals in major units and the week-over-week
// change in percent.
type SpendingSummary struct {
	Last7Days     string `json:"last_7_days"`
	Prev7Days     string `json:"prev_7_days"`
	ChangePercent string `json:"change_percent"`
}
