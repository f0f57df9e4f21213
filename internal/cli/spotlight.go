package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/segment"
	"github.com/gemlens/gemlens/internal/verdict"
)

func init() {
	rootCmd.AddCommand(newSpotlightCmd())
}

func newSpotlightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spotlight [experiment-id]",
		Short: "Break results down by device, visitor type, and traffic source",
		Long: `Evaluates the test per audience segment, flags segments that contradict
the overall result, and ranks segments by annualized revenue
opportunity.`,
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
				_, err = runSpotlight(ctx, s, st, true)
				return err
			})
		},
	}
	return cmd
}

// runSpotlight evaluates every segment dimension and, when print is
// set, renders the full breakdown. It returns all segment results for
// reuse by other commands.
func runSpotlight(ctx context.Context, s *session, st *study, print bool) ([]segment.Result, error) {
	runtime := st.runtimeDays()
	params := segment.Params{
		Metric:        st.metric,
		BestID:        st.best.ID,
		ControlID:     st.control.ID,
		OverallUplift: st.bestUplift(),
		ControlRPV:    st.feed.Value(st.metric, st.control.ID),
		RuntimeDays:   runtime,
		Thresholds:    s.cfg.Thresholds(),
	}

	if print {
		fmt.Println(render.Title("SPOTLIGHT: " + st.exp.Name))
		fmt.Println(render.Rule())
		fmt.Printf("Best variant: %s | Overall lift: %s\n",
			st.best.Name, render.FormatLift(st.bestUplift()))
	}

	var all []segment.Result
	for _, dim := range segment.Dimensions(s.cfg.Segments.IncludeCountry) {
		feed, err := s.client.SegmentAnalytics(ctx, st.exp.ID, dim.Key)
		if err != nil {
			// A failed dimension degrades the report, it does not kill it.
			if print {
				fmt.Printf("\n%s %s\n", render.Styles.Warn.Render("⚠"),
					fmt.Sprintf("Could not fetch the %s breakdown: %v", dim.Label, err))
			}
			continue
		}
		results := segment.Evaluate(feed.GroupBySegment(), dim, params)
		all = append(all, results...)

		if !print {
			continue
		}
		fmt.Printf("\n%s\n", render.Styles.Section.Render(dim.Label))
		if len(results) == 0 {
			fmt.Println(render.Styles.Muted.Render("  no data"))
			continue
		}
		for _, r := range results {
			marker := " "
			if r.Contradiction {
				marker = render.Styles.Warn.Render("!")
			}
			fmt.Printf("%s %-20s %-12s lift %8s  conf %6s  %s visitors\n",
				marker, r.Name,
				render.VerdictStyle(r.Verdict).Render(string(r.Verdict)),
				render.FormatLift(r.Uplift),
				render.FormatConfidence(r.Confidence),
				render.FormatNumber(r.Visitors))
		}
	}

	if print {
		printOpportunities(all)
		printContradictions(all, st)
	}
	return all, nil
}

func printOpportunities(all []segment.Result) {
	ranked := make([]segment.Result, 0, len(all))
	for _, r := range all {
		if r.RevenueOpportunity != 0 && r.Verdict != verdict.LowData {
			ranked = append(ranked, r)
		}
	}
	if len(ranked) == 0 {
		return
	}
	segment.Rank(ranked)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	fmt.Printf("\n%s\n", render.Styles.Section.Render("Top revenue opportunities"))
	for i, r := range ranked {
		direction := "upside"
		if r.RevenueOpportunity < 0 {
			direction = "at risk"
		}
		fmt.Printf("%d. %s (%s): %s/year %s\n",
			i+1, r.Name, r.Type,
			render.FormatCurrency(abs(r.RevenueOpportunity)), direction)
	}
}

func printContradictions(all []segment.Result, st *study) {
	var contra []segment.Result
	for _, r := range all {
		if r.Contradiction {
			contra = append(contra, r)
		}
	}
	if len(contra) == 0 {
		return
	}
	fmt.Printf("\n%s\n", render.Styles.Warn.Render("Contradictions"))
	for _, r := range contra {
		fmt.Println(render.Wrap(fmt.Sprintf(
			"%s moves against the overall result (%s there vs %s overall). A blanket rollout would hurt this segment.",
			r.Name, render.FormatLift(r.Uplift), render.FormatLift(st.bestUplift())), 76))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
