package analytics

import (
	"errors"
	"time"
)

// Structural errors. These mean the experiment itself is malformed, not
// that data is still accumulating; callers must stop rather than fall
// through to a TOO EARLY style outcome.
var (
	ErrNoControl        = errors.New("analytics: no control variation")
	ErrMultipleControls = errors.New("analytics: more than one control variation")
	ErrNoVariants       = errors.New("analytics: no non-control variations")
)

// TestType is the business lever an experiment changes.
type TestType string

const (
	TypePricing  TestType = "Pricing"
	TypeShipping TestType = "Shipping"
	TypeOffer    TestType = "Offer"
	TypeContent  TestType = "Content"
)

// TestTypes lists every test type, in coverage-report order.
var TestTypes = []TestType{TypePricing, TypeShipping, TypeOffer, TypeContent}

// Variation is one arm of an experiment.
type Variation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsControl bool   `json:"isControl"`
}

// Experiment is the configuration of one A/B test, as fetched.
// EndedAt is nil while the test is still running.
type Experiment struct {
	ID         string
	Name       string
	Type       TestType
	StartedAt  time.Time
	EndedAt    *time.Time
	Variations []Variation
}

// Control returns the experiment's control variation. An experiment has
// exactly one by construction; zero or several is a structural error.
func (e *Experiment) Control() (Variation, error) {
	var control Variation
	found := false
	for _, v := range e.Variations {
		if !v.IsControl {
			continue
		}
		if found {
			return Variation{}, ErrMultipleControls
		}
		control = v
		found = true
	}
	if !found {
		return Variation{}, ErrNoControl
	}
	return control, nil
}

// Variants returns the non-control variations, in their declared order.
func (e *Experiment) Variants() ([]Variation, error) {
	var variants []Variation
	for _, v := range e.Variations {
		if !v.IsControl {
			variants = append(variants, v)
		}
	}
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}
	return variants, nil
}

// VariationName looks up a variation's display name by ID.
func (e *Experiment) VariationName(id string) string {
	for _, v := range e.Variations {
		if v.ID == id {
			if v.Name == "" {
				return "Unknown"
			}
			return v.Name
		}
	}
	return "Unknown"
}

// RuntimeDays returns whole days from start to end (or to now for a
// running test), clamped at zero. A zero StartedAt means the test never
// started and counts as zero days.
func (e *Experiment) RuntimeDays(now time.Time) int {
	if e.StartedAt.IsZero() {
		return 0
	}
	end := now
	if e.EndedAt != nil {
		end = *e.EndedAt
	}
	days := int(end.Sub(e.StartedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// StartMonth returns the YYYY-MM the test started, or "" when unknown.
func (e *Experiment) StartMonth() string {
	if e.StartedAt.IsZero() {
		return ""
	}
	return e.StartedAt.Format("2006-01")
}
