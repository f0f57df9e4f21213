package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/portfolio"
	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/verdict"
)

func init() {
	rootCmd.AddCommand(newPortfolioCmd())
}

func newPortfolioCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Score the whole testing program: win rate, velocity, coverage",
		Long: `Pulls every ended test, classifies each one, and reports program-level
health: win rate over callable tests, testing velocity, which levers
have never been tested, and what to do about it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				return runPortfolio(ctx, s, limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of ended tests to analyze")
	return cmd
}

func runPortfolio(ctx context.Context, s *session, limit int) error {
	ended, err := s.client.EndedExperiments(ctx)
	if err != nil {
		return err
	}
	active, err := s.client.ActiveExperiments(ctx)
	if err != nil {
		return err
	}
	if len(ended)+len(active) == 0 {
		return fmt.Errorf("no experiments found for this account")
	}
	if limit > 0 && len(ended) > limit {
		ended = ended[:limit]
	}

	t := s.cfg.Thresholds()
	now := nowFunc()

	outcomes := make([]portfolio.TestOutcome, 0, len(ended))
	for i := range ended {
		outcomes = append(outcomes, classifyEnded(ctx, s, &ended[i], t))
	}

	actives := make([]portfolio.ActiveTest, 0, len(active))
	for i := range active {
		exp := &active[i]
		actives = append(actives, portfolio.ActiveTest{
			Name:        exp.Name,
			Type:        exp.Type,
			RuntimeDays: exp.RuntimeDays(now),
			StartMonth:  exp.StartMonth(),
		})
	}

	sc := portfolio.Build(outcomes, actives)
	printScorecard(sc, outcomes)
	return nil
}

func classifyEnded(ctx context.Context, s *session, exp *analytics.Experiment, t verdict.Thresholds) portfolio.TestOutcome {
	out := portfolio.TestOutcome{
		Name:        exp.Name,
		Type:        exp.Type,
		RuntimeDays: exp.RuntimeDays(nowFunc()),
		StartMonth:  exp.StartMonth(),
		Verdict:     portfolio.NoData,
	}

	if _, err := exp.Control(); err != nil {
		return out
	}
	variants, err := exp.Variants()
	if err != nil {
		return out
	}

	feed, err := s.client.OverviewAnalytics(ctx, exp.ID)
	if err != nil || len(feed) == 0 {
		return out
	}

	metric := feed.PrimaryRevenueMetric()
	best := analytics.BestVariantOrFirst(feed, variants, metric)
	out.Uplift = feed.UpliftValue(metric, best.ID)
	out.Confidence = feed.Confidence(metric, best.ID)
	out.Verdict = verdict.Classify(verdict.Observation{
		P2BB:        out.Confidence,
		Uplift:      out.Uplift,
		RuntimeDays: out.RuntimeDays,
		TotalOrders: feed.TotalOrders(),
	}, t)
	return out
}

func printScorecard(sc portfolio.Scorecard, outcomes []portfolio.TestOutcome) {
	fmt.Println(render.Title("TESTING PROGRAM SCORECARD"))
	fmt.Println(render.Rule())
	fmt.Printf("Tests: %d total (%d ended, %d running)\n",
		sc.TotalTests, sc.EndedTests, sc.ActiveTests)
	fmt.Printf("Calls: %d winners, %d losers, %d flat",
		sc.Winners, sc.Losers, sc.Flat)
	if sc.Callable > 0 {
		fmt.Printf(" | Win rate: %.0f%%", sc.WinRate)
	}
	fmt.Println()
	if sc.AvgRuntimeDays > 0 {
		fmt.Printf("Average runtime: %.0f days | Velocity: %.1f tests/month\n",
			sc.AvgRuntimeDays, sc.TestsPerMonth)
	}
	fmt.Println()

	if len(outcomes) > 0 {
		fmt.Println(render.Styles.Section.Render("Recent tests"))
		for _, o := range outcomes {
			fmt.Printf("  %-30s %-10s %-12s %s\n",
				truncateName(o.Name, 30), o.Type,
				render.VerdictStyle(o.Verdict).Render(string(o.Verdict)),
				render.FormatLift(o.Uplift))
		}
		fmt.Println()
	}

	fmt.Println(render.Styles.Section.Render("Lever coverage"))
	for _, t := range analytics.TestTypes {
		n := sc.Coverage[t]
		mark := render.Styles.Good.Render("✓")
		if n == 0 {
			mark = render.Styles.Warn.Render("✗")
		}
		fmt.Printf("  %s %-10s %d tests\n", mark, t, n)
	}
	fmt.Println()

	fmt.Println(render.Styles.Section.Render("Suggestions"))
	for _, sug := range sc.Suggestions {
		fmt.Println("  • " + render.Wrap(sug, 72))
	}
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
