package funnel_test

import (
	"testing"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/funnel"
)

func fp(v float64) *float64 { return &v }

func stagesWithUplifts(uplifts []*float64) []funnel.Stage {
	defs := funnel.Stages()
	stages := make([]funnel.Stage, 0, len(uplifts))
	for i, u := range uplifts {
		stages = append(stages, funnel.Stage{
			StageDef: defs[i],
			Uplift:   u,
			HasData:  true,
		})
	}
	return stages
}

func TestBreakpointFindsFlip(t *testing.T) {
	// Up, up, then the funnel turns: the flip is at the third stage.
	stages := stagesWithUplifts([]*float64{fp(0.10), fp(0.05), fp(-0.03), fp(-0.08)})
	bp := funnel.Breakpoint(stages, funnel.DivergenceDeadZone)
	if bp == nil {
		t.Fatal("expected a breakpoint")
	}
	if bp.Tag != funnel.TagContact {
		t.Errorf("breakpoint at %s, want Enter Contact Info", bp.Label)
	}
}

func TestBreakpointSkipsFlatStages(t *testing.T) {
	// The middle stage is inside the dead zone and must not reset the trend.
	stages := stagesWithUplifts([]*float64{fp(0.10), fp(0.001), fp(-0.08)})
	bp := funnel.Breakpoint(stages, funnel.DivergenceDeadZone)
	if bp == nil {
		t.Fatal("expected a breakpoint")
	}
	if bp.Tag != funnel.TagContact {
		t.Errorf("breakpoint at %s, want the third stage", bp.Label)
	}
}

func TestBreakpointNoFlip(t *testing.T) {
	stages := stagesWithUplifts([]*float64{fp(0.10), fp(0.05), fp(0.02), fp(0.01)})
	if bp := funnel.Breakpoint(stages, funnel.DivergenceDeadZone); bp != nil {
		t.Errorf("monotone funnel should have no breakpoint, got %s", bp.Label)
	}

	allFlat := stagesWithUplifts([]*float64{fp(0.001), fp(-0.002), fp(0.003)})
	if bp := funnel.Breakpoint(allFlat, funnel.DivergenceDeadZone); bp != nil {
		t.Errorf("all-flat funnel should have no breakpoint, got %s", bp.Label)
	}
}

func TestBreakpointIgnoresMissingUplift(t *testing.T) {
	stages := stagesWithUplifts([]*float64{fp(0.10), nil, fp(-0.08)})
	bp := funnel.Breakpoint(stages, funnel.DivergenceDeadZone)
	if bp == nil || bp.Tag != funnel.TagContact {
		t.Errorf("missing uplift should be skipped, got %v", bp)
	}
}

func TestBiggestGainAndDrop(t *testing.T) {
	stages := stagesWithUplifts([]*float64{fp(0.10), fp(0.15), fp(-0.03), fp(-0.08)})

	if g := funnel.BiggestGain(stages); g == nil || g.Tag != funnel.TagCheckout {
		t.Errorf("biggest gain = %v, want Begin Checkout", g)
	}
	if d := funnel.BiggestDrop(stages); d == nil || d.Tag != funnel.TagAddress {
		t.Errorf("biggest drop = %v, want Submit Address", d)
	}

	allDown := stagesWithUplifts([]*float64{fp(-0.10), fp(-0.15)})
	if g := funnel.BiggestGain(allDown); g != nil {
		t.Errorf("no positive stage, gain = %v", g)
	}
}

func TestAnalyzeMarksMissingStages(t *testing.T) {
	feed := analytics.Feed{
		{
			VariationID: "control",
			Metrics: map[string]analytics.MetricValue{
				analytics.MetricAddToCartRate: {Value: fp(0.12)},
			},
		},
		{
			VariationID: "var-a",
			Metrics: map[string]analytics.MetricValue{
				analytics.MetricAddToCartRate: {
					Value:  fp(0.14),
					Uplift: &analytics.UpliftStats{Value: fp(0.17)},
				},
			},
		},
	}

	stages := funnel.Analyze(feed, "control", "var-a")
	if len(stages) != 5 {
		t.Fatalf("got %d stages, want 5", len(stages))
	}
	if !stages[0].HasData {
		t.Error("add-to-cart stage should have data")
	}
	for _, s := range stages[1:] {
		if s.HasData {
			t.Errorf("%s should have no data", s.Label)
		}
	}
	if len(funnel.WithData(stages)) != 1 {
		t.Errorf("WithData should keep 1 stage")
	}
}
