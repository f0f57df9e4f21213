package verdict_test

import (
	"testing"

	"github.com/gemlens/gemlens/internal/verdict"
)

func fp(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	th := verdict.DefaultThresholds()

	tests := []struct {
		name    string
		p2bb    *float64
		uplift  *float64
		runtime int
		orders  int
		want    verdict.Verdict
	}{
		{"clear winner", fp(0.92), fp(0.08), 14, 120, verdict.Winner},
		{"winner at confidence boundary", fp(0.80), fp(0.021), 10, 30, verdict.Winner},
		{"lift exactly at neutral is not a winner", fp(0.80), fp(0.020), 10, 30, verdict.KeepRunning},
		{"confidence just under the bar", fp(0.79), fp(0.08), 14, 120, verdict.KeepRunning},
		{"clear loser", fp(0.04), fp(-0.09), 14, 120, verdict.Loser},
		{"negative lift without confidence", fp(0.40), fp(-0.09), 14, 120, verdict.KeepRunning},
		{"flat needs three weeks", fp(0.50), fp(0.0), 15, 50, verdict.KeepRunning},
		{"flat after three weeks", fp(0.50), fp(0.0), 21, 50, verdict.Flat},
		{"strong signal but too early", fp(0.99), fp(0.50), 5, 100, verdict.TooEarly},
		{"too few orders", fp(0.99), fp(0.50), 14, 29, verdict.TooEarly},
		{"no p2bb", nil, fp(0.10), 14, 120, verdict.TooEarly},
		{"no uplift", fp(0.95), nil, 14, 120, verdict.TooEarly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verdict.Classify(verdict.Observation{
				P2BB:        tt.p2bb,
				Uplift:      tt.uplift,
				RuntimeDays: tt.runtime,
				TotalOrders: tt.orders,
			}, th)
			if got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifySegment(t *testing.T) {
	th := verdict.DefaultThresholds()

	// Segments skip the maturity gate entirely.
	if got := verdict.ClassifySegment(fp(0.95), fp(0.10), 5, th); got != verdict.Winner {
		t.Errorf("short-runtime segment = %s, want WINNER", got)
	}
	if got := verdict.ClassifySegment(nil, fp(0.10), 30, th); got != verdict.LowData {
		t.Errorf("missing p2bb = %s, want LOW DATA", got)
	}
	if got := verdict.ClassifySegment(fp(0.95), nil, 30, th); got != verdict.LowData {
		t.Errorf("missing uplift = %s, want LOW DATA", got)
	}
}

func TestPriorityOrdering(t *testing.T) {
	order := []verdict.Verdict{
		verdict.Winner, verdict.KeepRunning, verdict.Flat, verdict.Loser, verdict.TooEarly,
	}
	for i := 1; i < len(order); i++ {
		if verdict.Priority(order[i-1]) >= verdict.Priority(order[i]) {
			t.Errorf("Priority(%s) should sort before Priority(%s)", order[i-1], order[i])
		}
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		x, deadZone float64
		want        verdict.Direction
	}{
		{0.10, 0.005, verdict.DirUp},
		{-0.10, 0.005, verdict.DirDown},
		{0.004, 0.005, verdict.DirFlat},
		{0.005, 0.005, verdict.DirFlat},
		{-0.005, 0.005, verdict.DirFlat},
		{0.0001, 0, verdict.DirUp},
		{0, 0, verdict.DirFlat},
	}
	for _, tt := range tests {
		if got := verdict.DirectionOf(tt.x, tt.deadZone); got != tt.want {
			t.Errorf("DirectionOf(%v, %v) = %s, want %s", tt.x, tt.deadZone, got, tt.want)
		}
	}
}

func TestDiverges(t *testing.T) {
	if !verdict.Diverges(verdict.DirUp, verdict.DirDown) {
		t.Error("up vs down should diverge")
	}
	if verdict.Diverges(verdict.DirUp, verdict.DirFlat) {
		t.Error("flat never diverges")
	}
	if verdict.Diverges(verdict.DirUp, verdict.DirUp) {
		t.Error("same direction never diverges")
	}
}
