// Package impact converts a per-visitor metric lift and a visitor
// run-rate into annualized dollar projections. Dollar amounts are
// decimals; a nil projection field means the confidence interval could
// not bound that side, which is different from a zero amount.
package impact

import (
	"github.com/shopspring/decimal"
)

var (
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
	daysPerWeek   = decimal.NewFromInt(7)
	daysPerMonth  = decimal.NewFromInt(30)
)

// Inputs are the concrete figures a projection needs. Callers must
// verify the control value and uplift are present before projecting;
// the CI bounds stay optional.
type Inputs struct {
	TotalVisitors int
	RuntimeDays   int
	ControlValue  float64 // per-visitor value of the primary metric on control
	Uplift        float64
	CILow         *float64
	CIHigh        *float64
}

// Projection is the dollar impact of rolling out the variant.
type Projection struct {
	AnnualBaseline decimal.Decimal
	ExpectedAnnual decimal.Decimal

	// ConservativeAnnual is the lower-bound projection. Zero when the
	// CI's lower bound is negative: a lower bound below zero means the
	// conservative case is "no proven gain", not a projected loss.
	// Nil when the bound itself is absent.
	ConservativeAnnual *decimal.Decimal

	// OptimisticAnnual is the upper-bound projection; nil when the
	// upper bound is absent ("cannot bound", never defaulted to zero).
	OptimisticAnnual *decimal.Decimal

	ExpectedMonthly     decimal.Decimal
	ConservativeMonthly *decimal.Decimal
	OptimisticMonthly   *decimal.Decimal

	// Opportunity cost of delaying a rollout.
	DailyDelayCost   decimal.Decimal
	WeeklyDelayCost  decimal.Decimal
	MonthlyDelayCost decimal.Decimal
}

// Project computes the annual and monthly dollar impact. The baseline
// is the annualized visitor count times the control's per-visitor
// value; every projection scales that baseline by a lift figure.
func Project(in Inputs) Projection {
	daily := decimal.NewFromFloat(AvgDailyVisitors(in.TotalVisitors, in.RuntimeDays))
	baseline := daily.Mul(daysPerYear).Mul(decimal.NewFromFloat(in.ControlValue))

	expected := baseline.Mul(decimal.NewFromFloat(in.Uplift))
	dailyCost := expected.Div(daysPerYear)

	p := Projection{
		AnnualBaseline:   baseline,
		ExpectedAnnual:   expected,
		ExpectedMonthly:  expected.Div(monthsPerYear),
		DailyDelayCost:   dailyCost,
		WeeklyDelayCost:  dailyCost.Mul(daysPerWeek),
		MonthlyDelayCost: dailyCost.Mul(daysPerMonth),
	}

	if in.CILow != nil {
		conservative := decimal.Zero
		if *in.CILow > 0 {
			conservative = baseline.Mul(decimal.NewFromFloat(*in.CILow))
		}
		monthly := conservative.Div(monthsPerYear)
		p.ConservativeAnnual = &conservative
		p.ConservativeMonthly = &monthly
	}

	if in.CIHigh != nil {
		optimistic := baseline.Mul(decimal.NewFromFloat(*in.CIHigh))
		monthly := optimistic.Div(monthsPerYear)
		p.OptimisticAnnual = &optimistic
		p.OptimisticMonthly = &monthly
	}

	return p
}

// AvgDailyVisitors returns visitors per day over the runtime, 0 when
// the runtime is not positive.
func AvgDailyVisitors(totalVisitors, runtimeDays int) float64 {
	if runtimeDays <= 0 {
		return 0
	}
	return float64(totalVisitors) / float64(runtimeDays)
}

// EquivalentCustomers translates a monthly dollar impact into the
// number of acquired customers it is worth at a given acquisition
// cost. Used for the marketing-equivalence framing.
func EquivalentCustomers(monthly decimal.Decimal, cac decimal.Decimal) int64 {
	if cac.IsZero() {
		return 0
	}
	return monthly.Abs().Div(cac).IntPart()
}
