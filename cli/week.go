package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menuplan/constraint"
	"menuplan/planner"
	"menuplan/report"
)

// NewWeekCommand creates the week command.
func NewWeekCommand() *cobra.Command {
	var (
		disable string
		days    int
	)

	cmd := &cobra.Command{
		Use:   "week CALORIES DISHES",
		Short: "Plan several days without repeating a dish",
		Long: `Plan --days consecutive menus of DISHES dishes each. A dish served on one
day is excluded on the following days. Planning stops at the first day that
cannot be filled.`,
		Example: `  menuplan week 1200 2 --days 5 --catalog dishes.csv`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calories, dishes, err := positionalInts(args)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			disabled, err := ParseIndexList(disable)
			if err != nil {
				return err
			}

			cfg := GetConfig(cmd.Context())
			cat, s, err := setup(cfg)
			if err != nil {
				return err
			}

			req := planner.NewConfig(calories, dishes)
			req.Alpha = cfg.Alpha
			req = req.Disable(disabled...)

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			p := planner.New(s, planner.WithLogger(GetLogger(cmd.Context())))
			menus, err := p.Week(ctx, cat, req, days)
			if err != nil {
				return fmt.Errorf("solver %s failed: %w", cfg.Solver, err)
			}
			planned := make([][]int, len(menus))
			for i, m := range menus {
				planned[i] = m
			}
			return report.WriteDays(cmd.OutOrStdout(), cat, planned, days, cfg.Output)
		},
	}

	cmd.Flags().Int("alpha", constraint.DefaultAlpha, "calorie tolerance around the target")
	cmd.Flags().StringVar(&disable, "disable", "", "dish indices to exclude on every day, e.g. 0,3-5")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to plan")

	return cmd
}
