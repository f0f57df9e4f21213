package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/funnel"
	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/segment"
	"github.com/gemlens/gemlens/internal/verdict"
)

func init() {
	rootCmd.AddCommand(newDebriefCmd())
}

func newDebriefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debrief [experiment-id]",
		Short: "Full post-test writeup: verdict, funnel, segments, and learnings",
		Long: `Produces the complete story of a test in one report: the call, where in
the funnel behavior changed, how each audience segment responded, what
was learned, and what to test next.`,
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
				return runDebrief(ctx, s, st)
			})
		},
	}
	return cmd
}

func runDebrief(ctx context.Context, s *session, st *study) error {
	t := s.cfg.Thresholds()
	runtime := st.runtimeDays()
	overall := verdict.Classify(verdict.Observation{
		P2BB:        st.bestConfidence(),
		Uplift:      st.bestUplift(),
		RuntimeDays: runtime,
		TotalOrders: st.feed.TotalOrders(),
	}, t)

	fmt.Println(render.Title("DEBRIEF: " + st.exp.Name))
	fmt.Println(render.Rule())
	fmt.Printf("%s tested %s for %s.\n",
		st.exp.Name, st.exp.Type, render.FormatRuntime(runtime))
	fmt.Printf("Result: %s. %s moved %s on %s at %s confidence.\n\n",
		render.VerdictStyle(overall).Render(string(overall)),
		st.best.Name,
		render.FormatLift(st.bestUplift()),
		analytics.MetricLabel(st.metric),
		render.FormatConfidence(st.bestConfidence()))

	// Funnel chapter.
	stages := funnel.WithData(funnel.Analyze(st.feed, st.control.ID, st.best.ID))
	if len(stages) > 0 {
		fmt.Println(render.Styles.Section.Render("Where behavior changed"))
		if bp := funnel.Breakpoint(stages, s.cfg.Analysis.DivergenceDeadZone); bp != nil {
			fmt.Println(render.Wrap(fmt.Sprintf("The funnel flips at %s (%s). %s",
				bp.Label, render.FormatLift(bp.Uplift), funnel.Hint(bp.Tag)), 76))
		} else if g := funnel.BiggestGain(stages); g != nil {
			fmt.Println(render.Wrap(fmt.Sprintf("The funnel moves together; the largest shift is at %s (%s).",
				g.Label, render.FormatLift(g.Uplift)), 76))
		}
		fmt.Println()
	}

	// Segment chapter.
	segments, err := runSpotlight(ctx, s, st, false)
	if err != nil {
		return err
	}
	if len(segments) > 0 {
		fmt.Println(render.Styles.Section.Render("Who responded"))
		insights := segment.Insights(segments, st.bestUplift(), s.cfg.Analysis.NeutralLiftThreshold)
		if len(insights) == 0 {
			fmt.Println(render.Styles.Muted.Render("Segment data is too thin for reliable patterns."))
		}
		for _, line := range insights {
			fmt.Println("  • " + render.Wrap(line, 72))
		}
		fmt.Println()

		rec := segment.Recommend(segments)
		fmt.Println(render.Styles.Section.Render("Rollout guidance: " + string(rec.Action)))
		fmt.Println(render.Wrap(rec.Reason, 76))
		fmt.Println()
	}

	if note := recentTrendNote(ctx, s, st); note != "" {
		fmt.Println(render.Styles.Section.Render("Momentum"))
		fmt.Println(render.Wrap(note, 76))
		fmt.Println()
	}

	fmt.Println(render.Styles.Section.Render("What to test next"))
	fmt.Println(render.Wrap(nextTestSuggestion(st.exp.Type, overall), 76))
	return nil
}

// recentTrendNote compares the final week of the test against the full
// period. A lift that holds up in the last week is more trustworthy
// than one carried by a strong early stretch.
func recentTrendNote(ctx context.Context, s *session, st *study) string {
	overall := st.bestUplift()
	if overall == nil || st.runtimeDays() < 10 {
		return ""
	}

	end := nowFunc()
	if st.exp.EndedAt != nil {
		end = *st.exp.EndedAt
	}
	recent, err := s.client.DateRangeAnalytics(ctx, st.exp.ID, end.AddDate(0, 0, -7), end)
	if err != nil {
		return ""
	}
	recentUplift := recent.UpliftValue(st.metric, st.best.ID)
	if recentUplift == nil {
		return ""
	}

	deadZone := s.cfg.Analysis.DivergenceDeadZone
	full := verdict.DirectionOf(*overall, deadZone)
	last := verdict.DirectionOf(*recentUplift, deadZone)
	if verdict.Diverges(full, last) {
		return fmt.Sprintf(
			"Momentum shifted: the full period shows %s but the final week shows %s. The early data may not reflect current behavior.",
			render.FormatLift(overall), render.FormatLift(recentUplift))
	}
	if last == full && full != verdict.DirFlat {
		return fmt.Sprintf("The final week (%s) confirms the full-period result (%s). The effect is holding.",
			render.FormatLift(recentUplift), render.FormatLift(overall))
	}
	return ""
}
