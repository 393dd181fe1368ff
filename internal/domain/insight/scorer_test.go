package insight

import (
	"errors"
	"testing"

	"spine/internal/domain/health"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func days(n int, sleep, hrv *float64, activity *int) []*health.Record {
	out := make([]*health.Record, n)
	for i := range out {
		out[i] = &health.Record{SleepHours: sleep, HRV: hrv, Activity: activity}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestScore_PoorSleepRisingSpend(t *testing.T) {
	res, err := Score(Inputs{
		Health:            days(3, floatPtr(4.5), nil, intPtr(1500)),
		CurrentSpendCents: 20000,
		PriorSpendCents:   10000,
	})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	if res.RiskScore != 75 {
		t.Errorf("RiskScore = %d, want 75", res.RiskScore)
	}

	want := []string{
		"HIGH RISK: Strong impulse spending risk detected",
		"Critical: Very poor sleep detected (< 5 hours average)",
		"Warning: Very low activity levels",
		"Alert: Spending up 100% from previous week",
		"Pattern detected: Poor sleep correlating with increased spending",
	}
	if len(res.Insights) != len(want) {
		t.Fatalf("Insights = %v, want %v", res.Insights, want)
	}
	for i := range want {
		if res.Insights[i] != want[i] {
			t.Errorf("Insights[%d] = %q, want %q", i, res.Insights[i], want[i])
		}
	}

	if res.HealthSummary != (HealthSummary{AvgSleep: "4.5", AvgHRV: "0", AvgActivity: "1500"}) {
		t.Errorf("HealthSummary = %+v", res.HealthSummary)
	}
	if res.SpendingSummary != (SpendingSummary{Last7Days: "200.00", Prev7Days: "100.00", ChangePercent: "100.0"}) {
		t.Errorf("SpendingSummary = %+v", res.SpendingSummary)
	}
}

func TestScore_HealthyNoBaseline(t *testing.T) {
	res, err := Score(Inputs{
		Health:            days(5, floatPtr(8), floatPtr(70), intPtr(8000)),
		CurrentSpendCents: 4250,
	})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	if res.RiskScore != 0 {
		t.Errorf("RiskScore = %d, want 0", res.RiskScore)
	}
	want := []string{
		"LOW RISK: Good behavioral balance",
		"Good: Healthy sleep patterns",
		"Good: Healthy HRV levels",
		"Good: Healthy activity levels",
	}
	if len(res.Insights) != len(want) {
		t.Fatalf("Insights = %v, want %v", res.Insights, want)
	}
	for i := range want {
		if res.Insights[i] != want[i] {
			t.Errorf("Insights[%d] = %q, want %q", i, res.Insights[i], want[i])
		}
	}
	if res.SpendingSummary.ChangePercent != "0" {
		t.Errorf("ChangePercent = %q, want \"0\"", res.SpendingSummary.ChangePercent)
	}
	if res.SpendingSummary.Last7Days != "42.50" || res.SpendingSummary.Prev7Days != "0.00" {
		t.Errorf("SpendingSummary = %+v", res.SpendingSummary)
	}
}

func TestScore_HRVAveragesEveryReading(t *testing.T) {
	records := []*health.Record{
		{SleepHours: floatPtr(8), HRV: floatPtr(0), Activity: intPtr(8000)},
		{SleepHours: floatPtr(8), HRV: floatPtr(-60), Activity: intPtr(8000)},
		{SleepHours: floatPtr(8), HRV: floatPtr(100), Activity: intPtr(8000)},
		{SleepHours: floatPtr(8), Activity: intPtr(8000)},
	}

	res, err := Score(Inputs{Health: records})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	// (0 - 60 + 100) / 3; the day without a reading is left out.
	if res.HealthSummary.AvgHRV != "13" {
		t.Errorf("AvgHRV = %q, want \"13\"", res.HealthSummary.AvgHRV)
	}
	if res.RiskScore != 25 {
		t.Errorf("RiskScore = %d, want 25", res.RiskScore)
	}
	if !contains(res.Insights, "Critical: Very low HRV - poor recovery") {
		t.Errorf("Insights = %v, want the very low HRV line", res.Insights)
	}
}

func TestScore_NotEnoughHealthData(t *testing.T) {
	for n := 0; n < 3; n++ {
		_, err := Score(Inputs{Health: days(n, floatPtr(8), nil, nil)})
		if !errors.Is(err, ErrNotEnoughHealthData) {
			t.Errorf("Score() with %d records error = %v, want ErrNotEnoughHealthData", n, err)
		}
	}
}

func TestScore_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		sleep       float64
		hrv         *float64
		activity    int
		current     int64
		prior       int64
		wantScore   int
		wantInsight string
	}{
		{"sleep under 6", 5.5, nil, 9000, 0, 0, 20, "Warning: Poor sleep detected (< 6 hours average)"},
		{"sleep under 7", 6.5, nil, 9000, 0, 0, 10, "Caution: Below optimal sleep (< 7 hours average)"},
		{"sleep exactly 7", 7, nil, 9000, 0, 0, 0, "Good: Healthy sleep patterns"},
		{"hrv under 20", 8, floatPtr(15), 9000, 0, 0, 25, "Critical: Very low HRV - poor recovery"},
		{"hrv under 40", 8, floatPtr(35), 9000, 0, 0, 15, "Warning: Low HRV - suboptimal recovery"},
		{"hrv under 60", 8, floatPtr(55), 9000, 0, 0, 5, "Caution: Moderate HRV"},
		{"activity under 5000", 8, nil, 3000, 0, 0, 10, "Caution: Below recommended activity"},
		{"spend up 30 percent", 8, nil, 9000, 13000, 10000, 15, "Caution: Spending increasing (up 30%)"},
		{"spend up 10 percent", 8, nil, 9000, 11000, 10000, 5, "Notice: Slight spending increase (10%)"},
		{"spend flat", 8, nil, 9000, 10000, 10000, 0, "Good: Spending stable or decreasing"},
		{"spend down", 8, nil, 9000, 5000, 10000, 0, "Good: Spending stable or decreasing"},
		{"spend exactly 50 percent", 8, nil, 9000, 15000, 10000, 15, "Caution: Spending increasing (up 50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(Inputs{
				Health:            days(3, floatPtr(tt.sleep), tt.hrv, intPtr(tt.activity)),
				CurrentSpendCents: tt.current,
				PriorSpendCents:   tt.prior,
			})
			if err != nil {
				t.Fatalf("Score() failed: %v", err)
			}
			if res.RiskScore != tt.wantScore {
				t.Errorf("RiskScore = %d, want %d", res.RiskScore, tt.wantScore)
			}
			if !contains(res.Insights, tt.wantInsight) {
				t.Errorf("Insights %v missing %q", res.Insights, tt.wantInsight)
			}
		})
	}
}

func TestScore_MediumRisk(t *testing.T) {
	// 20 (sleep) + 15 (hrv) + 10 (activity) = 45
	res, err := Score(Inputs{Health: days(3, floatPtr(5.5), floatPtr(30), intPtr(3000))})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if res.RiskScore != 45 {
		t.Errorf("RiskScore = %d, want 45", res.RiskScore)
	}
	if res.Insights[0] != "MEDIUM RISK: Elevated impulse risk - be mindful of purchases" {
		t.Errorf("leading insight = %q", res.Insights[0])
	}
}

func TestScore_HRVAveragesOnlyPresentReadings(t *testing.T) {
	records := []*health.Record{
		{SleepHours: floatPtr(8), HRV: floatPtr(50), Activity: intPtr(9000)},
		{SleepHours: floatPtr(8), HRV: nil, Activity: intPtr(9000)},
		{SleepHours: floatPtr(8), HRV: floatPtr(70), Activity: intPtr(9000)},
	}

	res, err := Score(Inputs{Health: records})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if res.HealthSummary.AvgHRV != "60" {
		t.Errorf("AvgHRV = %q, want 60", res.HealthSummary.AvgHRV)
	}
	if !contains(res.Insights, "Good: Healthy HRV levels") {
		t.Errorf("Insights = %v", res.Insights)
	}
}

func TestScore_MissingMetricsCountAsZero(t *testing.T) {
	records := []*health.Record{
		{SleepHours: floatPtr(9)},
		{SleepHours: floatPtr(9)},
		{},
	}

	res, err := Score(Inputs{Health: records})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	// avg sleep = 18/3 = 6.0, avg activity = 0
	if res.HealthSummary.AvgSleep != "6.0" {
		t.Errorf("AvgSleep = %q, want 6.0", res.HealthSummary.AvgSleep)
	}
	if res.RiskScore != 30 {
		t.Errorf("RiskScore = %d, want 30", res.RiskScore)
	}
}

func TestScore_PatternWithoutBaseline(t *testing.T) {
	res, err := Score(Inputs{
		Health:            days(3, floatPtr(5), nil, intPtr(9000)),
		CurrentSpendCents: 100,
	})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !contains(res.Insights, "Pattern detected: Poor sleep correlating with increased spending") {
		t.Errorf("expected pattern insight, got %v", res.Insights)
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	sleeps := []float64{0, 4.9, 5, 5.9, 6, 6.9, 7, 16}
	hrvs := []*float64{nil, floatPtr(0), floatPtr(1), floatPtr(19.9), floatPtr(39), floatPtr(59), floatPtr(200)}
	activities := []int{0, 1999, 2000, 4999, 5000, 50000}
	spends := [][2]int64{{0, 0}, {100, 0}, {0, 100}, {1_000_000, 1}, {-500, 100}, {150, 100}}

	max := 0
	for _, s := range sleeps {
		for _, h := range hrvs {
			for _, a := range activities {
				for _, sp := range spends {
					res, err := Score(Inputs{
						Health:            days(3, floatPtr(s), h, intPtr(a)),
						CurrentSpendCents: sp[0],
						PriorSpendCents:   sp[1],
					})
					if err != nil {
						t.Fatalf("Score() failed: %v", err)
					}
					if res.RiskScore < 0 || res.RiskScore > 100 {
						t.Fatalf("RiskScore = %d out of bounds", res.RiskScore)
					}
					if res.RiskScore > max {
						max = res.RiskScore
					}
				}
			}
		}
	}
	if max != 100 {
		t.Errorf("max reachable score = %d, want 100", max)
	}
}

func TestClamp(t *testing.T) {
	if clamp(130, 0, 100) != 100 || clamp(-5, 0, 100) != 0 || clamp(42, 0, 100) != 42 {
		t.Error("clamp() returned a value outside the bounds")
	}
}
