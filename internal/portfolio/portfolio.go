// Package portfolio aggregates verdicts across an entire testing
// program: win rate, velocity, lever coverage, and per-test health.
package portfolio

import (
	"fmt"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/verdict"
)

// NoData marks an ended test whose analytics returned nothing; it is
// excluded from the win rate alongside TOO EARLY.
const NoData = verdict.Verdict("NO DATA")

// TestOutcome is one ended test's contribution to the scorecard.
type TestOutcome struct {
	Name        string
	Type        analytics.TestType
	RuntimeDays int
	StartMonth  string // YYYY-MM
	Verdict     verdict.Verdict
	Uplift      *float64
	Confidence  *float64
}

// ActiveTest is a currently running test.
type ActiveTest struct {
	Name        string
	Type        analytics.TestType
	RuntimeDays int
	StartMonth  string
}

// Scorecard is the program-level summary.
type Scorecard struct {
	TotalTests  int
	EndedTests  int
	ActiveTests int

	Winners  int
	Losers   int
	Flat     int
	Callable int     // tests with a WINNER/LOSER/FLAT call
	WinRate  float64 // 0..100, over callable tests only

	AvgRuntimeDays float64
	TestsPerMonth  float64

	Coverage     map[analytics.TestType]int
	CoverageGaps []analytics.TestType

	Suggestions []string
}

// Build computes the scorecard over every ended and active test.
func Build(ended []TestOutcome, active []ActiveTest) Scorecard {
	sc := Scorecard{
		TotalTests:  len(ended) + len(active),
		EndedTests:  len(ended),
		ActiveTests: len(active),
		Coverage:    make(map[analytics.TestType]int),
	}

	runtimeSum, runtimeCount := 0, 0
	months := make(map[string]int)

	for _, r := range ended {
		switch r.Verdict {
		case verdict.Winner:
			sc.Winners++
		case verdict.Loser:
			sc.Losers++
		case verdict.Flat:
			sc.Flat++
		}
		if r.RuntimeDays > 0 {
			runtimeSum += r.RuntimeDays
			runtimeCount++
		}
		if r.StartMonth != "" {
			months[r.StartMonth]++
		}
		sc.Coverage[r.Type]++
	}
	for _, a := range active {
		if a.StartMonth != "" {
			months[a.StartMonth]++
		}
		sc.Coverage[a.Type]++
	}

	sc.Callable = sc.Winners + sc.Losers + sc.Flat
	if sc.Callable > 0 {
		sc.WinRate = float64(sc.Winners) / float64(sc.Callable) * 100
	}
	if runtimeCount > 0 {
		sc.AvgRuntimeDays = float64(runtimeSum) / float64(runtimeCount)
	}

	switch len(months) {
	case 0:
	case 1:
		for _, n := range months {
			sc.TestsPerMonth = float64(n)
		}
	default:
		total := 0
		for _, n := range months {
			total += n
		}
		sc.TestsPerMonth = float64(total) / float64(len(months))
	}

	for _, t := range analytics.TestTypes {
		if sc.Coverage[t] == 0 {
			sc.CoverageGaps = append(sc.CoverageGaps, t)
		}
	}

	sc.Suggestions = suggestions(sc, len(months))
	return sc
}

var coverageReasons = map[analytics.TestType]string{
	analytics.TypePricing:  "Pricing tests often have the highest revenue impact per visitor.",
	analytics.TypeShipping: "Shipping is a major checkout friction point. Worth testing thresholds.",
	analytics.TypeOffer:    "Offer/discount testing can reveal optimal promotional strategies.",
	analytics.TypeContent:  "Content tests help refine messaging and product presentation.",
}

func suggestions(sc Scorecard, activeMonths int) []string {
	var out []string

	for _, gap := range sc.CoverageGaps {
		out = append(out, fmt.Sprintf("Try %s testing: %s", gap, coverageReasons[gap]))
	}
	if sc.WinRate < 30 && sc.Callable >= 3 {
		out = append(out, fmt.Sprintf(
			"Win rate is low (%.0f%%). Consider testing bolder changes or different levers.", sc.WinRate))
	}
	if sc.TestsPerMonth < 2 && activeMonths >= 2 {
		out = append(out, fmt.Sprintf(
			"Testing velocity is low (%.1f/month). Aim for 2-4 tests per month.", sc.TestsPerMonth))
	}
	if len(out) == 0 {
		out = append(out, "Program is healthy. Keep testing and iterating on winners.")
	}
	return out
}
