package portfolio

import "fmt"

// Status is a traffic-light health signal for a running test.
type Status string

const (
	StatusRed    Status = "RED"
	StatusYellow Status = "YELLOW"
	StatusGreen  Status = "GREEN"
)

// Health is the per-test briefing line.
type Health struct {
	Status Status
	Action string
}

// HealthInputs carries the signals the health rules look at. Lift and
// confidence pointers are nil when the variation has no data yet.
type HealthInputs struct {
	RuntimeDays    int
	TotalOrders    int
	DailyVisitors  float64
	PrimaryLift    *float64
	PrimaryConf    *float64
	ConversionLift *float64
	ConversionConf *float64

	MinRuntimeDays int
	MinOrders      int
}

// Assess applies the health rules in priority order. RED rules run
// first so a broken test is never reported as merely slow.
func Assess(in HealthInputs) Health {
	if in.RuntimeDays < 3 {
		return Health{StatusRed, "Just launched. Verify tracking is recording sessions and orders."}
	}
	if in.TotalOrders == 0 {
		return Health{StatusRed, "No orders recorded after 3+ days. Check the integration setup."}
	}
	if has(in.ConversionLift) && has(in.ConversionConf) &&
		*in.ConversionLift < -0.20 && *in.ConversionConf >= 0.80 {
		return Health{StatusRed, fmt.Sprintf(
			"Conversion is down %.0f%% with high confidence. Consider pausing this test.",
			-*in.ConversionLift*100)}
	}

	if in.RuntimeDays < in.MinRuntimeDays {
		return Health{StatusYellow, fmt.Sprintf(
			"Only %d days in. Needs more data before any call.", in.RuntimeDays)}
	}
	if has(in.PrimaryLift) && has(in.PrimaryConf) &&
		*in.PrimaryLift < 0 && *in.PrimaryConf >= 0.60 && *in.PrimaryConf < 0.80 {
		return Health{StatusYellow, "Trending negative. Watch closely over the next few days."}
	}
	if in.DailyVisitors < 50 {
		return Health{StatusYellow, fmt.Sprintf(
			"Low traffic (%.0f visitors/day). This test will take a while to mature.", in.DailyVisitors)}
	}

	if has(in.PrimaryLift) && has(in.PrimaryConf) &&
		*in.PrimaryConf >= 0.80 && *in.PrimaryLift > 0.02 && in.TotalOrders >= in.MinOrders {
		return Health{StatusGreen, "Strong positive signal. Ready for a verdict check."}
	}
	if has(in.PrimaryLift) && has(in.PrimaryConf) &&
		*in.PrimaryConf >= 0.60 && *in.PrimaryLift > 0.02 {
		return Health{StatusGreen, "Emerging winner. Let it run to confirm."}
	}
	return Health{StatusGreen, "Gathering data, on track."}
}

// StatusPriority orders briefings worst first.
func StatusPriority(s Status) int {
	switch s {
	case StatusRed:
		return 0
	case StatusYellow:
		return 1
	default:
		return 2
	}
}

func has(p *float64) bool { return p != nil }
