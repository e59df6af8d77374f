package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menuplan/constraint"
	"menuplan/diagnose"
	"menuplan/planner"
	"menuplan/report"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var (
		disable string
		explain bool
		dump    bool
	)

	cmd := &cobra.Command{
		Use:   "plan CALORIES DISHES",
		Short: "Select DISHES dishes adding up to about CALORIES",
		Long: `Select exactly DISHES dishes from the catalog whose calories sum to within
--alpha of CALORIES. Prints "No Solution" when no such selection exists.`,
		Example: `  menuplan plan 700 2
  menuplan plan 1800 3 --alpha 50 --disable 0,4-6 --catalog dishes.yaml
  menuplan plan 700 2 --alpha 0 --explain`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calories, dishes, err := positionalInts(args)
			if err != nil {
				return err
			}
			disabled, err := ParseIndexList(disable)
			if err != nil {
				return err
			}

			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())
			cat, s, err := setup(cfg)
			if err != nil {
				return err
			}

			req := planner.NewConfig(calories, dishes)
			req.Alpha = cfg.Alpha
			req = req.Disable(disabled...)

			out := cmd.OutOrStdout()
			if dump {
				_, _ = fmt.Fprint(out, constraint.Encode(cat, req))
			}

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			p := planner.New(s, planner.WithLogger(logger))
			sel, ok, err := p.Select(ctx, cat, req)
			if err != nil {
				return fmt.Errorf("solver %s failed: %w", cfg.Solver, err)
			}
			if err := report.Write(out, cat, sel, ok, cfg.Output); err != nil {
				return err
			}
			if ok || !explain {
				return nil
			}

			conflicts, err := diagnose.Explain(ctx, s, constraint.Encode(cat, req), logger)
			if err != nil {
				return fmt.Errorf("failed to explain: %w", err)
			}
			return report.WriteConflicts(out, conflicts)
		},
	}

	cmd.Flags().Int("alpha", constraint.DefaultAlpha, "calorie tolerance around the target")
	cmd.Flags().StringVar(&disable, "disable", "", "dish indices to exclude, e.g. 0,3-5")
	cmd.Flags().BoolVar(&explain, "explain", false, "explain why no selection exists")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the constraint system before solving")

	return cmd
}
