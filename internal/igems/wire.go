package igems

import (
	"strings"
	"time"

	"github.com/gemlens/gemlens/internal/analytics"
)

// experienceWire mirrors the API's experience object. Timestamps come
// in two flavors depending on endpoint version, both in milliseconds.
type experienceWire struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Type        string                `json:"type"`
	StartedAtTs *int64                `json:"startedAtTs"`
	StartedAt   *int64                `json:"startedAt"`
	EndedAtTs   *int64                `json:"endedAtTs"`
	EndedAt     *int64                `json:"endedAt"`
	TestTypes   map[string]bool       `json:"testTypes"`
	Variations  []analytics.Variation `json:"variations"`
}

func (w experienceWire) toExperiment() analytics.Experiment {
	exp := analytics.Experiment{
		ID:         w.ID,
		Name:       w.Name,
		Type:       w.detectTestType(),
		Variations: w.Variations,
	}
	if ts := firstTs(w.StartedAtTs, w.StartedAt); ts != nil {
		exp.StartedAt = time.UnixMilli(*ts).UTC()
	}
	if ts := firstTs(w.EndedAtTs, w.EndedAt); ts != nil {
		ended := time.UnixMilli(*ts).UTC()
		exp.EndedAt = &ended
	}
	return exp
}

func firstTs(ptrs ...*int64) *int64 {
	for _, p := range ptrs {
		if p != nil && *p > 0 {
			return p
		}
	}
	return nil
}

// detectTestType maps the testTypes flag object onto the lever being
// tested. Content is the catch-all.
func (w experienceWire) detectTestType() analytics.TestType {
	flags := w.TestTypes
	switch {
	case flags["hasTestPricing"]:
		return analytics.TypePricing
	case flags["hasTestShipping"]:
		return analytics.TypeShipping
	case flags["hasTestCampaign"]:
		return analytics.TypeOffer
	}
	for flag, on := range flags {
		if on && strings.HasPrefix(flag, "hasTestContent") {
			return analytics.TypeContent
		}
	}
	for _, flag := range []string{"hasTestTemplate", "hasTestOnsite", "hasTestUrl", "hasTestTheme"} {
		if flags[flag] {
			return analytics.TypeContent
		}
	}

	switch t := strings.ToLower(w.Type); {
	case strings.Contains(t, "pric"):
		return analytics.TypePricing
	case strings.Contains(t, "ship"):
		return analytics.TypeShipping
	case strings.Contains(t, "offer"), strings.Contains(t, "discount"), strings.Contains(t, "campaign"):
		return analytics.TypeOffer
	}
	return analytics.TypeContent
}
