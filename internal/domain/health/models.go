package health

import (
	"time"

	"spine/internal/shared/validation"
)

const (
	MaxSleepHours = 16
	MaxSteps      = 50000
)

// Record is one day of self-reported health metrics. Every metric is optional.
type Record struct {
	ID         string
	UserID     string
	Date       time.Time
	SleepHours *float64
	HRV        *float64
	Activity   *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type SubmitParams struct {
	UserID     string
	Date       string // YYYY-MM-DD
	SleepHours *float64
	HRV        *float64
	Steps      *int
}

// Validate checks ranges and returns the parsed date. HRV is accepted as is.
func (p SubmitParams) Validate() (time.Time, error) {
	if p.UserID == "" || p.Date == "" {
		return time.Time{}, validation.New("Missing required fields: user_id and date")
	}

	date, err := time.Parse(time.DateOnly, p.Date)
	if err != nil {
		return time.Time{}, validation.New("Date must be in YYYY-MM-DD format")
	}

	if p.SleepHours != nil && (*p.SleepHours < 0 || *p.SleepHours > MaxSleepHours) {
		return time.Time{}, validation.New("Sleep hours must be between 0 and 16")
	}
	if p.Steps != nil && (*p.Steps < 0 || *p.Steps > MaxSteps) {
		return time.Time{}, validation.New("Steps must be between 0 and 50,000")
	}

	return date, nil
}
