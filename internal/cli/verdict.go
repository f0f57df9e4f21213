package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/impact"
	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/segment"
	"github.com/gemlens/gemlens/internal/slack"
	"github.com/gemlens/gemlens/internal/verdict"
)

func init() {
	rootCmd.AddCommand(newVerdictCmd())
}

func newVerdictCmd() *cobra.Command {
	var skipSegments bool

	cmd := &cobra.Command{
		Use:   "verdict [experiment-id]",
		Short: "Call a winner, loser, or flat for an experiment",
		Long: `Classifies every variation of an experiment against the control on the
primary revenue metric and explains the call: confidence, risk, data
maturity, and cross-metric warnings.

Example:
  gemlens verdict exp_a1b2c3`,
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
				return runVerdict(ctx, s, st, skipSegments)
			})
		},
	}

	cmd.Flags().BoolVar(&skipSegments, "skip-segments", false, "skip the device segment quick-check")
	return cmd
}

type variantRow struct {
	variation analytics.Variation
	uplift    *float64
	conf      *float64
	call      verdict.Verdict
}

func runVerdict(ctx context.Context, s *session, st *study, skipSegments bool) error {
	t := s.cfg.Thresholds()
	runtime := st.runtimeDays()
	orders := st.feed.TotalOrders()
	visitors := st.feed.TotalVisitors()

	rows := make([]variantRow, 0, len(st.variants))
	for _, v := range st.variants {
		uplift := st.feed.UpliftValue(st.metric, v.ID)
		conf := st.feed.Confidence(st.metric, v.ID)
		rows = append(rows, variantRow{
			variation: v,
			uplift:    uplift,
			conf:      conf,
			call: verdict.Classify(verdict.Observation{
				P2BB:        conf,
				Uplift:      uplift,
				RuntimeDays: runtime,
				TotalOrders: orders,
			}, t),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := verdict.Priority(rows[i].call), verdict.Priority(rows[j].call)
		if pi != pj {
			return pi < pj
		}
		return deref(rows[i].conf) > deref(rows[j].conf)
	})

	fmt.Println(render.Title("VERDICT: " + st.exp.Name))
	fmt.Println(render.Rule())
	fmt.Printf("Type: %s | Runtime: %s | Visitors: %s | Orders: %s\n",
		st.exp.Type, render.FormatRuntime(runtime),
		render.FormatNumber(visitors), render.FormatNumber(orders))
	fmt.Printf("Primary metric: %s\n\n", analytics.MetricLabel(st.metric))

	for _, r := range rows {
		style := render.VerdictStyle(r.call)
		fmt.Printf("%-24s %-14s lift %s  conf %s\n",
			r.variation.Name,
			style.Render(string(r.call)),
			render.FormatLift(r.uplift),
			render.FormatConfidence(r.conf))
	}
	fmt.Println()

	top := rows[0]
	fmt.Println(render.Styles.Section.Render("Reasoning"))
	fmt.Println(render.Wrap(verdictReasoning(st, top, t), 76))
	if risk := verdictRisk(top, s.cfg.Analysis.HighConfidence); risk != "" {
		fmt.Println(render.Wrap(risk, 76))
	}
	fmt.Println()

	if issues := maturityIssues(st, s, runtime, orders, visitors); len(issues) > 0 {
		fmt.Println(render.Styles.Warn.Render("Data maturity"))
		for _, issue := range issues {
			fmt.Printf("  ⚠ %s\n", issue)
		}
		fmt.Println()
	}

	for _, note := range crossMetricNotes(st, s.cfg.Analysis.DivergenceDeadZone) {
		fmt.Printf("%s %s\n", render.Styles.Warn.Render("Note:"), render.Wrap(note, 70))
	}

	if !skipSegments && top.call != verdict.TooEarly {
		if warnings := deviceQuickCheck(ctx, s, st, t, runtime); len(warnings) > 0 {
			fmt.Println()
			fmt.Println(render.Styles.Warn.Render("Segment check"))
			for _, w := range warnings {
				fmt.Printf("  ⚠ %s\n", render.Wrap(w, 72))
			}
		}
	}

	fmt.Println()
	fmt.Println(render.Styles.Section.Render("Next test"))
	fmt.Println(render.Wrap(nextTestSuggestion(st.exp.Type, top.call), 76))

	if postToSlack {
		return postVerdictToSlack(ctx, s, st, rows)
	}
	return nil
}

func verdictReasoning(st *study, top variantRow, t verdict.Thresholds) string {
	name := top.variation.Name
	switch top.call {
	case verdict.Winner:
		return fmt.Sprintf("%s confident that %s beats %s, lifting %s by %s.",
			render.FormatConfidence(top.conf), name, st.control.Name,
			analytics.MetricLabel(st.metric), render.FormatLift(top.uplift))
	case verdict.Loser:
		return fmt.Sprintf("%s is underperforming %s on %s (%s) with %s confidence that the control is better.",
			name, st.control.Name, analytics.MetricLabel(st.metric),
			render.FormatLift(top.uplift), render.FormatPct(inverse(top.conf)))
	case verdict.Flat:
		return fmt.Sprintf("After %d+ days the difference (%s) sits inside the noise band. This change does not move %s either way.",
			t.FlatMinRuntimeDays, render.FormatLift(top.uplift), analytics.MetricLabel(st.metric))
	case verdict.TooEarly:
		return "Not enough data yet for any call. Early numbers swing wildly and should not drive decisions."
	default:
		return fmt.Sprintf("The signal (%s lift at %s confidence) is promising but below the decision bar. Keep the test running.",
			render.FormatLift(top.uplift), render.FormatConfidence(top.conf))
	}
}

func verdictRisk(top variantRow, highConfidence float64) string {
	if top.call != verdict.Winner || top.conf == nil {
		return ""
	}
	if *top.conf >= highConfidence {
		return "Risk: minimal. Confidence is above the high-certainty bar."
	}
	risk := 1 - *top.conf
	if risk <= 0 {
		return ""
	}
	odds := int(1/risk + 0.5)
	return fmt.Sprintf("Risk: roughly a 1 in %d chance this result is noise rather than a real improvement.", odds)
}

func maturityIssues(st *study, s *session, runtime, orders, visitors int) []string {
	var issues []string
	a := s.cfg.Analysis
	if runtime < a.MinRuntimeDays {
		issues = append(issues, fmt.Sprintf("Only %s of runtime (minimum %d days). Weekday and weekend behavior differ.",
			render.FormatRuntime(runtime), a.MinRuntimeDays))
	}
	if orders < a.MinOrders {
		issues = append(issues, fmt.Sprintf("Only %d orders recorded (minimum %d).", orders, a.MinOrders))
		daily := analytics.DailyOrders(orders, runtime)
		if eta := analytics.DaysToTargetOrders(orders, a.MinOrders, daily); eta > 0 {
			issues = append(issues, fmt.Sprintf("At the current pace, about %d more days to reach %d orders.", eta, a.MinOrders))
		}
	}
	if visitors < a.MinVisitors {
		issues = append(issues, fmt.Sprintf("Only %s visitors (minimum %d). Results are highly unstable.",
			render.FormatNumber(visitors), a.MinVisitors))
	}
	return issues
}

// crossMetricNotes flags the cases where the primary metric and a
// supporting metric point in opposite directions.
func crossMetricNotes(st *study, deadZone float64) []string {
	var notes []string

	rpv := st.feed.UpliftValue(analytics.MetricNetRevenuePerVisitor, st.best.ID)
	cr := st.feed.UpliftValue(analytics.MetricConversionRate, st.best.ID)
	if d := impact.Detect(rpv, cr, deadZone); d != nil && d.DirA == verdict.DirUp {
		notes = append(notes, fmt.Sprintf(
			"Revenue per visitor is up %s but conversion rate is down %s. Fewer people buy, each order is worth more. Headroom: %+.1f points.",
			render.FormatLift(rpv), render.FormatLift(cr), d.Headroom()))
	}

	if st.feed.HasCOGSData() {
		gpv := st.feed.UpliftValue(analytics.MetricGrossProfitPerVisitor, st.best.ID)
		if d := impact.Detect(gpv, rpv, 0); d != nil {
			if d.DirA == verdict.DirDown {
				notes = append(notes, fmt.Sprintf(
					"Revenue is up %s but gross profit is down %s. The extra revenue is coming from lower-margin products.",
					render.FormatLift(rpv), render.FormatLift(gpv)))
			} else {
				notes = append(notes, fmt.Sprintf(
					"Gross profit is up %s even though revenue is down %s. The mix shifted toward higher-margin products.",
					render.FormatLift(gpv), render.FormatLift(rpv)))
			}
		}
	}
	return notes
}

// deviceQuickCheck pulls the device breakdown and reports segments that
// contradict the overall result.
func deviceQuickCheck(ctx context.Context, s *session, st *study, t verdict.Thresholds, runtime int) []string {
	feed, err := s.client.SegmentAnalytics(ctx, st.exp.ID, "device_type")
	if err != nil {
		return nil
	}

	overall := st.bestUplift()
	params := segment.Params{
		Metric:        st.metric,
		BestID:        st.best.ID,
		ControlID:     st.control.ID,
		OverallUplift: overall,
		ControlRPV:    st.feed.Value(st.metric, st.control.ID),
		RuntimeDays:   runtime,
		Thresholds:    t,
	}
	results := segment.Evaluate(feed.GroupBySegment(), segment.Dimension{Key: "device_type", Label: "Device"}, params)

	var warnings []string
	for _, r := range results {
		if r.Contradiction {
			warnings = append(warnings, fmt.Sprintf(
				"%s contradicts the overall result: %s there vs %s overall. Run 'gemlens spotlight' before rolling out.",
				r.Name, render.FormatLift(r.Uplift), render.FormatLift(overall)))
		}
	}
	return warnings
}

func postVerdictToSlack(ctx context.Context, s *session, st *study, rows []variantRow) error {
	top := rows[0]
	blocks := []slack.Block{
		slack.Header(fmt.Sprintf("%s Verdict: %s", slack.VerdictEmoji(top.call), st.exp.Name)),
		slack.Section(fmt.Sprintf("*%s* on %s", top.call, analytics.MetricLabel(st.metric))),
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s *%s*: %s lift, %s confidence",
			slack.VerdictEmoji(r.call), r.variation.Name,
			render.FormatLift(r.uplift), render.FormatConfidence(r.conf)))
	}
	blocks = append(blocks,
		slack.Section(strings.Join(lines, "\n")),
		slack.Context(fmt.Sprintf("Runtime %s | %s orders",
			render.FormatRuntime(st.runtimeDays()), render.FormatNumber(st.feed.TotalOrders()))),
	)
	return slack.Send(ctx, s.cfg.Slack.WebhookURL, blocks,
		fmt.Sprintf("Verdict for %s: %s", st.exp.Name, top.call))
}

func deref(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}

func inverse(p *float64) *float64 {
	if p == nil {
		return nil
	}
	inv := 1 - *p
	return &inv
}
