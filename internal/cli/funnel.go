package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemlens/gemlens/internal/funnel"
	"github.com/gemlens/gemlens/internal/render"
)

func init() {
	rootCmd.AddCommand(newFunnelCmd())
}

func newFunnelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funnel [experiment-id]",
		Short: "Diagnose where in the purchase funnel a test wins or loses",
		Long: `Walks the purchase funnel stage by stage (add to cart through purchase)
for the best variant against the control, and points at the stage where
behavior flips direction.`,
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
				return runFunnel(st, s.cfg.Analysis.DivergenceDeadZone)
			})
		},
	}
	return cmd
}

func runFunnel(st *study, deadZone float64) error {
	stages := funnel.Analyze(st.feed, st.control.ID, st.best.ID)
	withData := funnel.WithData(stages)
	if len(withData) == 0 {
		return fmt.Errorf("no funnel metrics available for %s", st.exp.Name)
	}

	fmt.Println(render.Title("FUNNEL: " + st.exp.Name))
	fmt.Println(render.Rule())
	fmt.Printf("Comparing %s against %s\n\n", st.best.Name, st.control.Name)

	fmt.Printf("%-22s %10s %10s %9s %7s\n", "Stage", st.control.Name, st.best.Name, "Lift", "Conf")
	for _, stg := range stages {
		if !stg.HasData {
			fmt.Printf("%-22s %s\n", stg.Label, render.Styles.Muted.Render("no data"))
			continue
		}
		fmt.Printf("%-22s %10s %10s %9s %7s\n",
			stg.Label,
			render.FormatPct(stg.Control),
			render.FormatPct(stg.Variant),
			render.FormatLift(stg.Uplift),
			render.FormatPct(stg.Confidence))
	}
	fmt.Println()

	if bp := funnel.Breakpoint(withData, deadZone); bp != nil {
		fmt.Println(render.Styles.Warn.Render("Breakpoint: " + bp.Label))
		fmt.Println(render.Wrap(fmt.Sprintf(
			"Behavior flips at %s (%s). %s", bp.Label, render.FormatLift(bp.Uplift), funnel.Hint(bp.Tag)), 76))
	} else {
		fmt.Println(render.Wrap("No breakpoint detected. All stages move in the same direction.", 76))
	}
	fmt.Println()

	if g := funnel.BiggestGain(withData); g != nil {
		fmt.Printf("Biggest gain: %s (%s)\n", g.Label, render.FormatLift(g.Uplift))
	}
	if d := funnel.BiggestDrop(withData); d != nil {
		fmt.Printf("Biggest drop: %s (%s)\n", d.Label, render.FormatLift(d.Uplift))
	}
	return nil
}
