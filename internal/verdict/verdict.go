// Package verdict turns a variation's confidence and uplift into a
// categorical call. Classification is a pure function of its inputs:
// there is no stored state, and the same snapshot always yields the
// same verdict.
package verdict

import "math"

// Verdict is the categorical outcome of an analysis.
type Verdict string

const (
	Winner      Verdict = "WINNER"
	Loser       Verdict = "LOSER"
	Flat        Verdict = "FLAT"
	KeepRunning Verdict = "KEEP RUNNING"
	TooEarly    Verdict = "TOO EARLY"

	// LowData is segment-scoped: a segment without confidence or
	// uplift data inside an otherwise mature experiment.
	LowData Verdict = "LOW DATA"
)

// Thresholds is the statistical policy behind every call. The defaults
// are policy constants, not universal truths; callers can carry an
// alternative policy without touching any classifier code.
type Thresholds struct {
	// MinConfidence is the p2bb needed to call a winner (or, applied
	// to 1-p2bb, a loser). Exactly at the threshold counts as passing.
	MinConfidence float64

	// NeutralLift is the dead-zone around zero inside which a lift is
	// considered noise. A lift exactly at the threshold is still
	// neutral.
	NeutralLift float64

	// MinRuntimeDays and MinOrders gate all verdicts: below either, a
	// test is TOO EARLY no matter what the numbers say.
	MinRuntimeDays int
	MinOrders      int

	// FlatMinRuntimeDays is the extra maturity needed before calling
	// FLAT. A test can be mature enough for WINNER/LOSER at
	// MinRuntimeDays but not mature enough for FLAT until this many
	// days have passed.
	FlatMinRuntimeDays int
}

// DefaultThresholds returns the standard policy: 80% confidence is
// enough to act, ±2% lift is noise, and no call before 10 days and
// 30 orders (21 days for FLAT).
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:      0.80,
		NeutralLift:        0.02,
		MinRuntimeDays:     10,
		MinOrders:          30,
		FlatMinRuntimeDays: 21,
	}
}

// Observation is one variation's evidence against control.
// P2BB and Uplift are nil when the data source had insufficient data.
type Observation struct {
	P2BB        *float64
	Uplift      *float64
	RuntimeDays int
	TotalOrders int
}

// Classify maps an observation to exactly one verdict.
//
// The maturity gate runs first: an immature test is TOO EARLY even at
// 99% confidence. FLAT additionally requires FlatMinRuntimeDays; a
// mature-but-young test with a neutral lift stays KEEP RUNNING.
func Classify(o Observation, t Thresholds) Verdict {
	if o.RuntimeDays < t.MinRuntimeDays || o.TotalOrders < t.MinOrders {
		return TooEarly
	}
	if o.P2BB == nil || o.Uplift == nil {
		return TooEarly
	}
	return call(*o.P2BB, *o.Uplift, o.RuntimeDays, t)
}

// ClassifySegment is the segment-scoped variant: segments live inside
// an experiment whose maturity has already been validated, so there is
// no runtime/order gate, and missing data means LOW DATA rather than
// TOO EARLY.
func ClassifySegment(p2bb, uplift *float64, runtimeDays int, t Thresholds) Verdict {
	if p2bb == nil || uplift == nil {
		return LowData
	}
	return call(*p2bb, *uplift, runtimeDays, t)
}

func call(p2bb, uplift float64, runtimeDays int, t Thresholds) Verdict {
	if p2bb >= t.MinConfidence && uplift > t.NeutralLift {
		return Winner
	}
	if (1-p2bb) >= t.MinConfidence && uplift < -t.NeutralLift {
		return Loser
	}
	if runtimeDays >= t.FlatMinRuntimeDays && math.Abs(uplift) <= t.NeutralLift {
		return Flat
	}
	return KeepRunning
}

// Priority orders verdicts for presentation: winners first, then the
// still-running, then flats and losers, with too-early last.
func Priority(v Verdict) int {
	switch v {
	case Winner:
		return 0
	case KeepRunning:
		return 1
	case Flat:
		return 2
	case Loser:
		return 3
	case TooEarly:
		return 4
	default:
		return 5
	}
}
