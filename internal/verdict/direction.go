package verdict

// Direction classifies a signed lift with a dead-zone around zero.
// It backs every signed-divergence check in the analysis: funnel
// breakpoints, revenue-vs-conversion divergence, and revenue-vs-profit
// divergence all share this primitive and differ only in dead-zone.
type Direction int

const (
	DirDown Direction = iota - 1
	DirFlat
	DirUp
)

// String returns the lowercase label used in diagnoses.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "flat"
	}
}

// DirectionOf classifies x as up, down, or flat. Values within
// ±deadZone (inclusive) are flat.
func DirectionOf(x, deadZone float64) Direction {
	switch {
	case x > deadZone:
		return DirUp
	case x < -deadZone:
		return DirDown
	default:
		return DirFlat
	}
}

// Diverges reports whether two directions point opposite ways. Flat is
// transparent: it neither confirms nor contradicts a trend.
func Diverges(a, b Direction) bool {
	return a != b && a != DirFlat && b != DirFlat
}
