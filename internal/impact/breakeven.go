package impact

import "github.com/gemlens/gemlens/internal/verdict"

// Divergence captures two uplift signals moving in opposite
// directions, e.g. revenue per visitor up while conversion rate is
// down. The funnel breakpoint scan uses the same direction primitive;
// only the dead-zone differs per call site.
type Divergence struct {
	A, B       float64
	DirA, DirB verdict.Direction
}

// Detect classifies both signals with the given dead-zone and returns
// the divergence, or nil when either signal is absent or they agree.
func Detect(a, b *float64, deadZone float64) *Divergence {
	if a == nil || b == nil {
		return nil
	}
	da := verdict.DirectionOf(*a, deadZone)
	db := verdict.DirectionOf(*b, deadZone)
	if !verdict.Diverges(da, db) {
		return nil
	}
	return &Divergence{A: *a, B: *b, DirA: da, DirB: db}
}

// Headroom returns how much of signal A's gain survives signal B's
// loss, in percentage points. Positive means A's gain more than
// absorbs B's drop.
func (d *Divergence) Headroom() float64 {
	return d.A*100 - (-d.B)*100
}
