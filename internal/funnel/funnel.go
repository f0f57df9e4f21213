// Package funnel compares control and variant stage by stage across
// the checkout funnel and locates where behavior diverges.
package funnel

import (
	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/verdict"
)

// DivergenceDeadZone is the dead-zone used when classifying a stage
// uplift's direction. It is deliberately tighter than the verdict
// neutral-lift threshold: a half-percent move is enough to establish a
// funnel trend even though it is not enough to call a test.
const DivergenceDeadZone = 0.005

// StageTag identifies a funnel stage independently of its display
// label, so remediation logic can switch on the stage rather than
// match substrings of presentation text.
type StageTag int

const (
	TagCart StageTag = iota
	TagCheckout
	TagContact
	TagAddress
	TagPurchase
)

// StageDef is one step of the fixed funnel sequence.
type StageDef struct {
	Metric string
	Label  string
	Tag    StageTag
}

// Stages returns the funnel stage sequence, in order.
func Stages() []StageDef {
	return []StageDef{
		{analytics.MetricAddToCartRate, "Add to Cart", TagCart},
		{analytics.MetricCheckoutBeginRate, "Begin Checkout", TagCheckout},
		{analytics.MetricCheckoutContactRate, "Enter Contact Info", TagContact},
		{analytics.MetricCheckoutAddressRate, "Submit Address", TagAddress},
		{analytics.MetricConversionRate, "Purchase", TagPurchase},
	}
}

// Stage is one analyzed funnel step. HasData is set when either side
// reported a value; only stages with data participate in extremum and
// breakpoint searches.
type Stage struct {
	StageDef
	Control    *float64
	Variant    *float64
	Uplift     *float64
	Confidence *float64
	HasData    bool
}

// Analyze extracts control/variant values, uplift, and confidence for
// every funnel stage.
func Analyze(feed analytics.Feed, controlID, variantID string) []Stage {
	defs := Stages()
	stages := make([]Stage, 0, len(defs))
	for _, def := range defs {
		s := Stage{
			StageDef:   def,
			Control:    feed.Value(def.Metric, controlID),
			Variant:    feed.Value(def.Metric, variantID),
			Uplift:     feed.UpliftValue(def.Metric, variantID),
			Confidence: feed.Confidence(def.Metric, variantID),
		}
		s.HasData = s.Control != nil || s.Variant != nil
		stages = append(stages, s)
	}
	return stages
}

// WithData filters to the stages that reported any value.
func WithData(stages []Stage) []Stage {
	var active []Stage
	for _, s := range stages {
		if s.HasData {
			active = append(active, s)
		}
	}
	return active
}

// BiggestGain returns the stage with the largest positive uplift, or
// nil when no stage improved.
func BiggestGain(stages []Stage) *Stage {
	var best *Stage
	for i := range stages {
		u := stages[i].Uplift
		if u == nil || *u <= 0 {
			continue
		}
		if best == nil || *u > *best.Uplift {
			best = &stages[i]
		}
	}
	return best
}

// BiggestDrop returns the stage with the largest negative uplift, or
// nil when no stage regressed.
func BiggestDrop(stages []Stage) *Stage {
	var worst *Stage
	for i := range stages {
		u := stages[i].Uplift
		if u == nil || *u >= 0 {
			continue
		}
		if worst == nil || *u < *worst.Uplift {
			worst = &stages[i]
		}
	}
	return worst
}

// Breakpoint scans stages in funnel order and returns the first stage
// whose direction flips against the last non-flat direction seen: the
// point where the variant stops helping and starts hurting, or the
// reverse. Flat stages are transparent to the scan. Returns nil when
// the funnel never establishes a direction or never flips.
func Breakpoint(stages []Stage, deadZone float64) *Stage {
	prev := verdict.DirFlat
	for i := range stages {
		if stages[i].Uplift == nil {
			continue
		}
		dir := verdict.DirectionOf(*stages[i].Uplift, deadZone)
		if verdict.Diverges(prev, dir) {
			return &stages[i]
		}
		if dir != verdict.DirFlat {
			prev = dir
		}
	}
	return nil
}

// Hint returns the remediation suggestion for a weak stage.
func Hint(tag StageTag) string {
	switch tag {
	case TagCart:
		return "Consider testing product page changes to improve add-to-cart conversion."
	case TagCheckout:
		return "Checkout is the bottleneck. Test checkout flow simplification or trust signals."
	case TagContact, TagAddress:
		return "Form friction is the issue. Test reducing required fields or adding progress indicators."
	case TagPurchase:
		return "The final purchase step is weak. Test payment options, shipping clarity, or urgency messaging."
	default:
		return ""
	}
}
