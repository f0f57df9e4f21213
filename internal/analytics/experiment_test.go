package analytics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gemlens/gemlens/internal/analytics"
)

func TestControlResolution(t *testing.T) {
	exp := &analytics.Experiment{
		Variations: []analytics.Variation{
			{ID: "c", Name: "Control", IsControl: true},
			{ID: "v", Name: "Variant"},
		},
	}
	control, err := exp.Control()
	if err != nil {
		t.Fatalf("Control() error: %v", err)
	}
	if control.ID != "c" {
		t.Errorf("control ID = %s, want c", control.ID)
	}

	noControl := &analytics.Experiment{
		Variations: []analytics.Variation{{ID: "v"}},
	}
	if _, err := noControl.Control(); !errors.Is(err, analytics.ErrNoControl) {
		t.Errorf("want ErrNoControl, got %v", err)
	}

	twoControls := &analytics.Experiment{
		Variations: []analytics.Variation{
			{ID: "a", IsControl: true},
			{ID: "b", IsControl: true},
		},
	}
	if _, err := twoControls.Control(); !errors.Is(err, analytics.ErrMultipleControls) {
		t.Errorf("want ErrMultipleControls, got %v", err)
	}
}

func TestVariants(t *testing.T) {
	exp := &analytics.Experiment{
		Variations: []analytics.Variation{
			{ID: "c", IsControl: true},
			{ID: "v1"},
			{ID: "v2"},
		},
	}
	variants, err := exp.Variants()
	if err != nil {
		t.Fatalf("Variants() error: %v", err)
	}
	if len(variants) != 2 {
		t.Errorf("got %d variants, want 2", len(variants))
	}

	onlyControl := &analytics.Experiment{
		Variations: []analytics.Variation{{ID: "c", IsControl: true}},
	}
	if _, err := onlyControl.Variants(); !errors.Is(err, analytics.ErrNoVariants) {
		t.Errorf("want ErrNoVariants, got %v", err)
	}
}

func TestRuntimeDays(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	running := &analytics.Experiment{StartedAt: now.AddDate(0, 0, -14)}
	if got := running.RuntimeDays(now); got != 14 {
		t.Errorf("running RuntimeDays = %d, want 14", got)
	}

	endedAt := now.AddDate(0, 0, -7)
	ended := &analytics.Experiment{
		StartedAt: now.AddDate(0, 0, -21),
		EndedAt:   &endedAt,
	}
	if got := ended.RuntimeDays(now); got != 14 {
		t.Errorf("ended RuntimeDays = %d, want 14", got)
	}

	neverStarted := &analytics.Experiment{}
	if got := neverStarted.RuntimeDays(now); got != 0 {
		t.Errorf("zero start RuntimeDays = %d, want 0", got)
	}
}

func TestVariationName(t *testing.T) {
	exp := &analytics.Experiment{
		Variations: []analytics.Variation{{ID: "v1", Name: "Bold Price"}},
	}
	if got := exp.VariationName("v1"); got != "Bold Price" {
		t.Errorf("VariationName = %q", got)
	}
	if got := exp.VariationName("nope"); got != "Unknown" {
		t.Errorf("unknown variation = %q, want Unknown", got)
	}
}

func TestDaysToTargetOrders(t *testing.T) {
	if got := analytics.DaysToTargetOrders(10, 30, 4); got != 6 {
		t.Errorf("got %d days, want 6", got)
	}
	if got := analytics.DaysToTargetOrders(35, 30, 4); got != 0 {
		t.Errorf("target met: got %d, want 0", got)
	}
	if got := analytics.DaysToTargetOrders(10, 30, 0); got != -1 {
		t.Errorf("zero rate: got %d, want -1", got)
	}
}
