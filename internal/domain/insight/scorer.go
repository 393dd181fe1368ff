package insight

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spine/internal/domain/health"
	"spine/internal/shared/money"
)

const minHealthRecords = 3

var (
	hundred         = decimal.NewFromInt(100)
	patternSpendGap = decimal.RequireFromString("1.2")
)

// Inputs is everything the scorer looks at: the health records in the
// trailing week and spend totals for this week and the one before.
type Inputs struct {
	Health            []*health.Record
	CurrentSpendCents int64
	PriorSpendCents   int64
}

type Result struct {
	RiskScore       int
	Insights        []string
	HealthSummary   HealthSummary
	SpendingSummary SpendingSummary
}

// Score computes the 0-100 impulse spending risk. It is pure; persistence
// lives in Service.
func Score(in Inputs) (*Result, error) {
	n := len(in.Health)
	if n < minHealthRecords {
		return nil, ErrNotEnoughHealthData
	}

	var sleepSum, hrvSum, activitySum float64
	var hrvCount int
	for _, r := range in.Health {
		if r.SleepHours != nil {
			sleepSum += *r.SleepHours
		}
		if r.HRV != nil {
			hrvSum += *r.HRV
			hrvCount++
		}
		if r.Activity != nil {
			activitySum += float64(*r.Activity)
		}
	}

	avgSleep := sleepSum / float64(n)
	avgActivity := activitySum / float64(n)
	var avgHRV float64
	if hrvCount > 0 {
		avgHRV = hrvSum / float64(hrvCount)
	}

	current := money.FromCents(in.CurrentSpendCents)
	prior := money.FromCents(in.PriorSpendCents)

	score := 0
	var insights []string

	switch {
	case avgSleep < 5:
		score += 30
		insights = append(insights, "Critical: Very poor sleep detected (< 5 hours average)")
	case avgSleep < 6:
		score += 20
		insights = append(insights, "Warning: Poor sleep detected (< 6 hours average)")
	case avgSleep < 7:
		score += 10
		insights = append(insights, "Caution: Below optimal sleep (< 7 hours average)")
	default:
		insights = append(insights, "Good: Healthy sleep patterns")
	}

	if hrvCount > 0 {
		switch {
		case avgHRV < 20:
			score += 25
			insights = append(insights, "Critical: Very low HRV - poor recovery")
		case avgHRV < 40:
			score += 15
			insights = append(insights, "Warning: Low HRV - suboptimal recovery")
		case avgHRV < 60:
			score += 5
			insights = append(insights, "Caution: Moderate HRV")
		default:
			insights = append(insights, "Good: Healthy HRV levels")
		}
	}

	switch {
	case avgActivity < 2000:
		score += 20
		insights = append(insights, "Warning: Very low activity levels")
	case avgActivity < 5000:
		score += 10
		insights = append(insights, "Caution: Below recommended activity")
	default:
		insights = append(insights, "Good: Healthy activity levels")
	}

	changePercent := "0"
	if prior.IsPositive() {
		pct := current.Sub(prior).Div(prior).Mul(hundred)
		changePercent = pct.StringFixed(1)
		whole := pct.StringFixed(0)

		switch {
		case pct.GreaterThan(decimal.NewFromInt(50)):
			score += 25
			insights = append(insights, fmt.Sprintf("Alert: Spending up %s%% from previous week", whole))
		case pct.GreaterThan(decimal.NewFromInt(20)):
			score += 15
			insights = append(insights, fmt.Sprintf("Caution: Spending increasing (up %s%%)", whole))
		case pct.IsPositive():
			score += 5
			insights = append(insights, fmt.Sprintf("Notice: Slight spending increase (%s%%)", whole))
		default:
			insights = append(insights, "Good: Spending stable or decreasing")
		}
	}

	var overall string
	switch {
	case score > 70:
		overall = "HIGH RISK: Strong impulse spending risk detected"
	case score > 40:
		overall = "MEDIUM RISK: Elevated impulse risk - be mindful of purchases"
	default:
		overall = "LOW RISK: Good behavioral balance"
	}
	insights = append([]string{overall}, insights...)

	if avgSleep < 6 && current.GreaterThan(prior.Mul(patternSpendGap)) {
		insights = append(insights, "Pattern detected: Poor sleep correlating with increased spending")
	}

	return &Result{
		RiskScore: clamp(score, 0, 100),
		Insights:  insights,
		HealthSummary: HealthSummary{
			AvgSleep:    decimal.NewFromFloat(avgSleep).StringFixed(1),
			AvgHRV:      decimal.NewFromFloat(avgHRV).StringFixed(0),
			AvgActivity: decimal.NewFromFloat(avgActivity).StringFixed(0),
		},
		SpendingSummary: SpendingSummary{
			Last7Days:     current.StringFixed(2),
			Prev7Days:     prior.StringFixed(2),
			ChangePercent: changePercent,
		},
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
