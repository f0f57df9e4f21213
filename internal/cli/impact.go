package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/impact"
	"github.com/gemlens/gemlens/internal/render"
)

func init() {
	rootCmd.AddCommand(newImpactCmd())
}

func newImpactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact [experiment-id]",
		Short: "Project the annual revenue impact of rolling out the winner",
		Long: `Translates the best variant's lift into dollars: annualized expected
impact with a conservative-to-optimistic range, the monthly equivalent,
and what each week of delay costs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				id, err := resolveExperiment(ctx, s, args)
				if err != nil {
					return err
				}
				st, err := s.loadStudy(ctx, id)
				if err != nil {
					return err
				}
				return runImpact(st, s)
			})
		},
	}
	return cmd
}

func runImpact(st *study, s *session) error {
	uplift := st.bestUplift()
	controlValue := st.feed.Value(st.metric, st.control.ID)
	if uplift == nil || controlValue == nil {
		return fmt.Errorf("no uplift data yet for %s; impact needs a measured lift", st.exp.Name)
	}

	runtime := st.runtimeDays()
	visitors := st.feed.TotalVisitors()
	p := impact.Project(impact.Inputs{
		TotalVisitors: visitors,
		RuntimeDays:   runtime,
		ControlValue:  *controlValue,
		Uplift:        *uplift,
		CILow:         st.feed.CILow(st.metric, st.best.ID),
		CIHigh:        st.feed.CIHigh(st.metric, st.best.ID),
	})

	fmt.Println(render.Title("IMPACT: " + st.exp.Name))
	fmt.Println(render.Rule())
	fmt.Printf("Best variant: %s | Lift: %s on %s\n",
		st.best.Name, render.FormatLift(uplift), analytics.MetricLabel(st.metric))
	fmt.Printf("Traffic basis: %s visitors over %s (%.0f/day)\n\n",
		render.FormatNumber(visitors), render.FormatRuntime(runtime),
		impact.AvgDailyVisitors(visitors, runtime))

	fmt.Println(render.Styles.Section.Render("Annualized projection"))
	fmt.Printf("  Baseline revenue:  %s/year\n", money(p.AnnualBaseline))
	fmt.Printf("  Expected impact:   %s/year (%s/month)\n", money(p.ExpectedAnnual), money(p.ExpectedMonthly))
	if p.ConservativeAnnual != nil && p.OptimisticAnnual != nil {
		fmt.Printf("  Range:             %s to %s per year\n",
			money(*p.ConservativeAnnual), money(*p.OptimisticAnnual))
	}
	fmt.Println()

	if p.ExpectedAnnual.IsPositive() {
		fmt.Println(render.Styles.Section.Render("Cost of waiting"))
		fmt.Printf("  Every day without this change: %s\n", money(p.DailyDelayCost))
		fmt.Printf("  Every week:                    %s\n", money(p.WeeklyDelayCost))
		fmt.Printf("  Every month:                   %s\n", money(p.MonthlyDelayCost))
		fmt.Println()
	}

	cac := decimal.NewFromFloat(s.cfg.Analysis.AssumedCAC)
	if n := impact.EquivalentCustomers(p.ExpectedMonthly, cac); n > 0 {
		fmt.Println(render.Wrap(fmt.Sprintf(
			"The monthly impact equals acquiring about %d new customers at a %s acquisition cost, without spending a dollar on ads.",
			n, money(cac)), 76))
		fmt.Println()
	}

	fmt.Println(render.Styles.Section.Render("Bottom line"))
	fmt.Println(render.Wrap(impactSummary(st, p), 76))

	for _, w := range impactWarnings(st, s, runtime) {
		fmt.Printf("\n%s %s\n", render.Styles.Warn.Render("⚠"), render.Wrap(w, 74))
	}
	return nil
}

func money(d decimal.Decimal) string {
	return render.FormatCurrency(d.InexactFloat64())
}

func impactSummary(st *study, p impact.Projection) string {
	if p.ExpectedAnnual.IsPositive() {
		return fmt.Sprintf("Rolling out %s is worth about %s per year at current traffic. Shipping it a month sooner is worth %s.",
			st.best.Name, money(p.ExpectedAnnual), money(p.MonthlyDelayCost))
	}
	if p.ExpectedAnnual.IsNegative() {
		return fmt.Sprintf("Rolling out %s would cost about %s per year. Keep the control.",
			st.best.Name, money(p.ExpectedAnnual.Abs()))
	}
	return "The measured lift rounds to zero. There is no financial case either way."
}

func impactWarnings(st *study, s *session, runtime int) []string {
	var warnings []string
	a := s.cfg.Analysis

	if conf := st.bestConfidence(); conf != nil && *conf < a.MinConfidence {
		warnings = append(warnings, fmt.Sprintf(
			"Confidence is only %s. These projections assume the lift is real; it may not be.",
			render.FormatConfidence(conf)))
	}
	ciLow := st.feed.CILow(st.metric, st.best.ID)
	if ciLow != nil && *ciLow <= 0 {
		warnings = append(warnings,
			"The confidence interval includes zero. The conservative scenario is no impact at all.")
	}
	if runtime < a.MinRuntimeDays {
		warnings = append(warnings, fmt.Sprintf(
			"Only %s of data. Projections from immature tests routinely miss by 2x or more.",
			render.FormatRuntime(runtime)))
	}
	return warnings
}
