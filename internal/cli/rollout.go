package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/segment"
	"github.com/gemlens/gemlens/internal/slack"
	"github.com/gemlens/gemlens/internal/verdict"
)

func init() {
	rootCmd.AddCommand(newRolloutCmd())
}

func newRolloutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout [experiment-id]",
		Short: "Get a ship/hold decision combining the verdict and segments",
		Long: `Produces an executive decision for a test: the overall call, whether
any segment contradicts it, and a concrete rollout action.`,
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
				return runRollout(ctx, s, st)
			})
		},
	}
	return cmd
}

func runRollout(ctx context.Context, s *session, st *study) error {
	t := s.cfg.Thresholds()
	overall := verdict.Classify(verdict.Observation{
		P2BB:        st.bestConfidence(),
		Uplift:      st.bestUplift(),
		RuntimeDays: st.runtimeDays(),
		TotalOrders: st.feed.TotalOrders(),
	}, t)

	segments, err := runSpotlight(ctx, s, st, false)
	if err != nil {
		return err
	}
	var contradictions []segment.Result
	for _, r := range segments {
		if r.Contradiction {
			contradictions = append(contradictions, r)
		}
	}
	rec := segment.Recommend(segments)
	action, rationale := rolloutDecision(overall, contradictions)

	fmt.Println(render.Title("ROLLOUT: " + st.exp.Name))
	fmt.Println(render.Rule())
	fmt.Printf("Overall: %s (%s lift, %s confidence) for %s\n\n",
		render.VerdictStyle(overall).Render(string(overall)),
		render.FormatLift(st.bestUplift()),
		render.FormatConfidence(st.bestConfidence()),
		st.best.Name)

	fmt.Println(render.Styles.Section.Render("Decision: " + action))
	fmt.Println(render.Wrap(rationale, 76))
	fmt.Println()

	fmt.Println(render.Styles.Section.Render("Segment view: " + string(rec.Action)))
	fmt.Println(render.Wrap(rec.Reason, 76))

	if len(contradictions) > 0 {
		fmt.Println()
		fmt.Println(render.Styles.Warn.Render("Contradicting segments"))
		for _, r := range contradictions {
			fmt.Printf("  ! %s (%s): %s\n", r.Name, r.Type, render.FormatLift(r.Uplift))
		}
	}

	if postToSlack {
		blocks := []slack.Block{
			slack.Header(fmt.Sprintf("%s Rollout call: %s", slack.VerdictEmoji(overall), st.exp.Name)),
			slack.Section(fmt.Sprintf("*%s*\n%s", action, rationale)),
			slack.Context(fmt.Sprintf("Segments say: %s", rec.Action)),
		}
		return slack.Send(ctx, s.cfg.Slack.WebhookURL, blocks,
			fmt.Sprintf("Rollout call for %s: %s", st.exp.Name, action))
	}
	return nil
}

// rolloutDecision turns the overall verdict and any contradicting
// segments into the executive action.
func rolloutDecision(overall verdict.Verdict, contradictions []segment.Result) (string, string) {
	switch overall {
	case verdict.Winner:
		if len(contradictions) > 0 {
			return "ROLL OUT WITH CAUTION", fmt.Sprintf(
				"The variant wins overall, but %d segment(s) move the other way. Roll out broadly and consider excluding or separately targeting the contradicting segments.",
				len(contradictions))
		}
		return "ROLL OUT", "The variant wins overall and every segment agrees or lacks data. Ship it to 100% of traffic."
	case verdict.Loser:
		return "END TEST", "The variant is losing with high confidence. End the test and keep the control."
	case verdict.Flat:
		return "END TEST", "The change makes no measurable difference. End the test, keep whichever version is cheaper to maintain, and spend the traffic on a bolder idea."
	case verdict.TooEarly:
		return "WAIT", "There is not enough data for any decision. Let the test keep collecting."
	default:
		return "KEEP RUNNING", "The signal is real but below the decision bar. Keep the test running until confidence or runtime crosses the threshold."
	}
}
