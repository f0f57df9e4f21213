package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/portfolio"
	"github.com/gemlens/gemlens/internal/render"
	"github.com/gemlens/gemlens/internal/slack"
)

func init() {
	rootCmd.AddCommand(newBriefCmd())
}

func newBriefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Morning briefing on every running test",
		Long: `Checks the health of every running experiment and prints a one-line
status per test, worst first. RED means something needs attention
today; GREEN means the test is collecting on track.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(runBrief)
		},
	}
	return cmd
}

type briefLine struct {
	exp    analytics.Experiment
	health portfolio.Health
	lift   *float64
	conf   *float64
}

func runBrief(ctx context.Context, s *session) error {
	active, err := s.client.ActiveExperiments(ctx)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		fmt.Println("No running experiments. Time to launch one.")
		return nil
	}

	now := nowFunc()
	lines := make([]briefLine, 0, len(active))
	for _, exp := range active {
		lines = append(lines, briefTest(ctx, s, exp, now))
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return portfolio.StatusPriority(lines[i].health.Status) < portfolio.StatusPriority(lines[j].health.Status)
	})

	fmt.Println(render.Title(fmt.Sprintf("DAILY BRIEF: %d running tests", len(lines))))
	fmt.Println(render.Rule())
	for _, l := range lines {
		style := render.StatusStyle(l.health.Status)
		fmt.Printf("%s %-32s %s lift, %s conf, %s\n",
			style.Render(fmt.Sprintf("%-6s", l.health.Status)),
			truncateName(l.exp.Name, 32),
			render.FormatLift(l.lift),
			render.FormatConfidence(l.conf),
			render.FormatRuntime(l.exp.RuntimeDays(now)))
		fmt.Printf("       %s\n", render.Wrap(l.health.Action, 70))
	}

	if postToSlack {
		return postBriefToSlack(ctx, s, lines)
	}
	return nil
}

func briefTest(ctx context.Context, s *session, exp analytics.Experiment, now time.Time) briefLine {
	line := briefLine{exp: exp}
	runtime := exp.RuntimeDays(now)

	variants, err := exp.Variants()
	if err != nil {
		line.health = portfolio.Health{
			Status: portfolio.StatusRed,
			Action: "Experiment has no variants configured. Check the setup.",
		}
		return line
	}
	feed, err := s.client.OverviewAnalytics(ctx, exp.ID)
	if err != nil {
		line.health = portfolio.Health{
			Status: portfolio.StatusYellow,
			Action: "Could not fetch analytics: " + err.Error(),
		}
		return line
	}

	metric := feed.PrimaryRevenueMetric()
	best := analytics.BestVariantOrFirst(feed, variants, metric)
	line.lift = feed.UpliftValue(metric, best.ID)
	line.conf = feed.Confidence(metric, best.ID)

	line.health = portfolio.Assess(portfolio.HealthInputs{
		RuntimeDays:    runtime,
		TotalOrders:    feed.TotalOrders(),
		DailyVisitors:  analytics.DailyVisitors(feed.TotalVisitors(), runtime),
		PrimaryLift:    line.lift,
		PrimaryConf:    line.conf,
		ConversionLift: feed.UpliftValue(analytics.MetricConversionRate, best.ID),
		ConversionConf: feed.Confidence(analytics.MetricConversionRate, best.ID),
		MinRuntimeDays: s.cfg.Analysis.MinRuntimeDays,
		MinOrders:      s.cfg.Analysis.MinOrders,
	})
	return line
}

func postBriefToSlack(ctx context.Context, s *session, lines []briefLine) error {
	blocks := []slack.Block{
		slack.Header(fmt.Sprintf("Daily brief: %d running tests", len(lines))),
	}
	var rows []string
	for _, l := range lines {
		rows = append(rows, fmt.Sprintf("%s *%s*: %s lift. %s",
			slack.StatusEmoji(l.health.Status), l.exp.Name,
			render.FormatLift(l.lift), l.health.Action))
	}
	blocks = append(blocks, slack.Section(strings.Join(rows, "\n")))
	return slack.Send(ctx, s.cfg.Slack.WebhookURL, blocks,
		fmt.Sprintf("Daily brief: %d running tests", len(lines)))
}
