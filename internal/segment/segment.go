// Package segment evaluates an experiment's result within each
// audience segment, flags segments that contradict the overall call,
// and ranks them by the annualized dollars at stake.
package segment

import (
	"math"
	"sort"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/verdict"
)

// Dimension is one audience axis the analytics API can segment by.
type Dimension struct {
	Key   string
	Label string
}

// Dimensions returns the segment axes to analyze. Country segmentation
// is optional: it multiplies segment count without adding much signal
// for most stores.
func Dimensions(includeCountry bool) []Dimension {
	dims := []Dimension{
		{"device_type", "Device"},
		{"visitor_type", "Visitor Type"},
		{"source_channel", "Traffic Source"},
	}
	if includeCountry {
		dims = append(dims, Dimension{"country_code", "Country"})
	}
	return dims
}

// Result is one segment's outcome.
type Result struct {
	Name               string
	Type               string
	Verdict            verdict.Verdict
	Uplift             *float64
	Confidence         *float64
	Visitors           int
	RevenueOpportunity float64
	Contradiction      bool
}

// Params carries the experiment-level context a segment is evaluated
// against.
type Params struct {
	Metric        string
	BestID        string
	ControlID     string
	OverallUplift *float64
	ControlRPV    *float64
	RuntimeDays   int
	Thresholds    verdict.Thresholds
}

// Evaluate classifies every segment group of one dimension. Groups are
// visited in sorted label order so repeated runs produce identical
// output.
func Evaluate(groups map[string]analytics.Feed, dim Dimension, p Params) []Result {
	results := make([]Result, 0, len(groups))
	for _, name := range analytics.SegmentNames(groups) {
		feed := groups[name]
		uplift := feed.UpliftValue(p.Metric, p.BestID)
		conf := feed.Confidence(p.Metric, p.BestID)
		visitors := feed.VariationVisitors(p.BestID) + feed.VariationVisitors(p.ControlID)

		results = append(results, Result{
			Name:               name,
			Type:               dim.Label,
			Verdict:            verdict.ClassifySegment(conf, uplift, p.RuntimeDays, p.Thresholds),
			Uplift:             uplift,
			Confidence:         conf,
			Visitors:           visitors,
			RevenueOpportunity: RevenueOpportunity(visitors, uplift, p.ControlRPV, p.RuntimeDays),
			Contradiction:      Contradicts(p.OverallUplift, uplift, p.Thresholds.NeutralLift),
		})
	}
	return results
}

// Contradicts reports whether a segment's uplift sign opposes the
// overall uplift sign beyond the neutral threshold on both sides.
// Either value inside the dead-zone is noise, not a contradiction.
func Contradicts(overall, seg *float64, threshold float64) bool {
	if overall == nil || seg == nil {
		return false
	}
	if *overall > threshold && *seg < -threshold {
		return true
	}
	if *overall < -threshold && *seg > threshold {
		return true
	}
	return false
}

// RevenueOpportunity annualizes the dollars at stake in one segment:
// its daily visitors times the absolute per-visitor lift, over a year.
// Zero when any input is absent or the runtime is not positive.
func RevenueOpportunity(segVisitors int, uplift, controlRPV *float64, runtimeDays int) float64 {
	if uplift == nil || controlRPV == nil || runtimeDays <= 0 || segVisitors <= 0 {
		return 0
	}
	segDaily := float64(segVisitors) / float64(runtimeDays)
	perVisitor := *controlRPV * *uplift
	return segDaily * perVisitor * 365
}

// Rank orders segments by descending absolute revenue opportunity.
// The ranking decides which segments surface as rollout candidates,
// not just how a table is sorted.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].RevenueOpportunity) > math.Abs(results[j].RevenueOpportunity)
	})
}
