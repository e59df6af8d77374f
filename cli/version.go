package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menuplan/solver"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display menuplan version and the available solver backends.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "menuplan v%s (%s)\n", version, GitCommit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "solvers: %v\n", solver.Backends())
		},
	}
}
