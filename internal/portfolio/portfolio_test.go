package portfolio_test

import (
	"strings"
	"testing"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/portfolio"
	"github.com/gemlens/gemlens/internal/verdict"
)

func fp(v float64) *float64 { return &v }

func TestBuildScorecard(t *testing.T) {
	ended := []portfolio.TestOutcome{
		{Name: "price-test", Type: analytics.TypePricing, RuntimeDays: 21, StartMonth: "2026-05", Verdict: verdict.Winner},
		{Name: "shipping-test", Type: analytics.TypeShipping, RuntimeDays: 14, StartMonth: "2026-06", Verdict: verdict.Loser},
		{Name: "copy-test", Type: analytics.TypeContent, RuntimeDays: 28, StartMonth: "2026-06", Verdict: verdict.Flat},
		{Name: "broken-test", Type: analytics.TypeContent, RuntimeDays: 0, StartMonth: "", Verdict: portfolio.NoData},
	}
	active := []portfolio.ActiveTest{
		{Name: "offer-test", Type: analytics.TypeOffer, RuntimeDays: 5, StartMonth: "2026-07"},
	}

	sc := portfolio.Build(ended, active)

	if sc.TotalTests != 5 || sc.EndedTests != 4 || sc.ActiveTests != 1 {
		t.Errorf("counts = %d/%d/%d", sc.TotalTests, sc.EndedTests, sc.ActiveTests)
	}
	if sc.Callable != 3 {
		t.Errorf("Callable = %d, want 3 (NO DATA excluded)", sc.Callable)
	}
	if sc.WinRate < 33.2 || sc.WinRate > 33.4 {
		t.Errorf("WinRate = %v, want 33.3", sc.WinRate)
	}
	// Average runtime skips the zero-day test: (21+14+28)/3 = 21.
	if sc.AvgRuntimeDays != 21 {
		t.Errorf("AvgRuntimeDays = %v, want 21", sc.AvgRuntimeDays)
	}
	// 4 dated tests across 3 distinct months.
	if sc.TestsPerMonth < 1.3 || sc.TestsPerMonth > 1.4 {
		t.Errorf("TestsPerMonth = %v, want 1.33", sc.TestsPerMonth)
	}
	if len(sc.CoverageGaps) != 0 {
		t.Errorf("all levers covered, gaps = %v", sc.CoverageGaps)
	}
}

func TestBuildSingleMonthVelocity(t *testing.T) {
	ended := []portfolio.TestOutcome{
		{Name: "a", Type: analytics.TypePricing, StartMonth: "2026-08", Verdict: verdict.Winner},
		{Name: "b", Type: analytics.TypePricing, StartMonth: "2026-08", Verdict: verdict.Flat},
	}
	sc := portfolio.Build(ended, nil)
	if sc.TestsPerMonth != 2 {
		t.Errorf("single-month velocity = %v, want 2", sc.TestsPerMonth)
	}
}

func TestBuildCoverageGaps(t *testing.T) {
	ended := []portfolio.TestOutcome{
		{Name: "a", Type: analytics.TypeContent, StartMonth: "2026-08", Verdict: verdict.Winner},
	}
	sc := portfolio.Build(ended, nil)

	if len(sc.CoverageGaps) != 3 {
		t.Fatalf("gaps = %v, want pricing, shipping, offer", sc.CoverageGaps)
	}
	joined := strings.Join(sc.Suggestions, " ")
	if !strings.Contains(joined, "pricing") {
		t.Errorf("suggestions should mention the pricing gap: %v", sc.Suggestions)
	}
}

func TestBuildHealthyProgramSuggestion(t *testing.T) {
	ended := []portfolio.TestOutcome{
		{Name: "a", Type: analytics.TypePricing, StartMonth: "2026-08", Verdict: verdict.Winner},
		{Name: "b", Type: analytics.TypeShipping, StartMonth: "2026-08", Verdict: verdict.Winner},
		{Name: "c", Type: analytics.TypeOffer, StartMonth: "2026-08", Verdict: verdict.Winner},
		{Name: "d", Type: analytics.TypeContent, StartMonth: "2026-08", Verdict: verdict.Flat},
	}
	sc := portfolio.Build(ended, nil)
	if len(sc.Suggestions) != 1 || !strings.Contains(sc.Suggestions[0], "healthy") {
		t.Errorf("Suggestions = %v, want the healthy-program message", sc.Suggestions)
	}
}

func TestBuildLowWinRateSuggestion(t *testing.T) {
	ended := []portfolio.TestOutcome{
		{Name: "a", Type: analytics.TypePricing, StartMonth: "2026-07", Verdict: verdict.Loser},
		{Name: "b", Type: analytics.TypeShipping, StartMonth: "2026-07", Verdict: verdict.Loser},
		{Name: "c", Type: analytics.TypeOffer, StartMonth: "2026-08", Verdict: verdict.Flat},
		{Name: "d", Type: analytics.TypeContent, StartMonth: "2026-08", Verdict: verdict.Loser},
	}
	sc := portfolio.Build(ended, nil)
	joined := strings.Join(sc.Suggestions, " ")
	if !strings.Contains(joined, "Win rate is low") {
		t.Errorf("expected a low win rate suggestion: %v", sc.Suggestions)
	}
}

func TestAssessHealth(t *testing.T) {
	base := portfolio.HealthInputs{
		RuntimeDays:    14,
		TotalOrders:    80,
		DailyVisitors:  300,
		MinRuntimeDays: 10,
		MinOrders:      30,
	}

	tests := []struct {
		name   string
		mutate func(*portfolio.HealthInputs)
		want   portfolio.Status
	}{
		{"just launched", func(in *portfolio.HealthInputs) { in.RuntimeDays = 1 }, portfolio.StatusRed},
		{"no orders", func(in *portfolio.HealthInputs) { in.TotalOrders = 0 }, portfolio.StatusRed},
		{"conversion cratering", func(in *portfolio.HealthInputs) {
			in.ConversionLift = fp(-0.25)
			in.ConversionConf = fp(0.90)
		}, portfolio.StatusRed},
		{"short runtime", func(in *portfolio.HealthInputs) { in.RuntimeDays = 6 }, portfolio.StatusYellow},
		{"trending negative", func(in *portfolio.HealthInputs) {
			in.PrimaryLift = fp(-0.04)
			in.PrimaryConf = fp(0.70)
		}, portfolio.StatusYellow},
		{"low traffic", func(in *portfolio.HealthInputs) { in.DailyVisitors = 20 }, portfolio.StatusYellow},
		{"strong signal", func(in *portfolio.HealthInputs) {
			in.PrimaryLift = fp(0.08)
			in.PrimaryConf = fp(0.90)
		}, portfolio.StatusGreen},
		{"emerging winner", func(in *portfolio.HealthInputs) {
			in.PrimaryLift = fp(0.05)
			in.PrimaryConf = fp(0.65)
		}, portfolio.StatusGreen},
		{"on track by default", func(in *portfolio.HealthInputs) {}, portfolio.StatusGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			h := portfolio.Assess(in)
			if h.Status != tt.want {
				t.Errorf("Assess = %s (%s), want %s", h.Status, h.Action, tt.want)
			}
			if h.Action == "" {
				t.Error("every health status needs an action")
			}
		})
	}
}

func TestStatusPriority(t *testing.T) {
	if portfolio.StatusPriority(portfolio.StatusRed) >= portfolio.StatusPriority(portfolio.StatusYellow) {
		t.Error("RED must sort before YELLOW")
	}
	if portfolio.StatusPriority(portfolio.StatusYellow) >= portfolio.StatusPriority(portfolio.StatusGreen) {
		t.Error("YELLOW must sort before GREEN")
	}
}
