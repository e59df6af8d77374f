// Package cli provides the menuplan command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"menuplan/catalog"
	"menuplan/config"
	"menuplan/constraint"
	"menuplan/report"
	"menuplan/solver"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "menuplan",
		Short: "Pick dishes that add up to a calorie target",
		Long: `menuplan chooses a fixed number of dishes from a catalog so that their
calories fall within a tolerance of a target, optionally excluding dishes.
The search is done by a pluggable constraint solver.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./menuplan.yaml)")
	flags.String("catalog", "", "dish catalog (.csv, .yaml or .db)")
	flags.String("solver", "", "solver backend (gophersat|gini|maxsat|prolog)")
	flags.StringP("output", "o", "", "output format (text|table|json)")
	flags.Duration("timeout", 0, "give up solving after this long (0 for never)")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return report.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("solver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return solver.Backends(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewWeekCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Catalog: config.DefaultCatalog,
		Solver:  solver.Gophersat,
		Alpha:   constraint.DefaultAlpha,
		Output:  report.Text,
		Timeout: config.DefaultTimeout,
		Addr:    config.DefaultAddr,
		Workers: config.DefaultWorkers,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// withTimeout applies the configured solving timeout. Zero means none.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// positionalInts reads CALORIES and DISHES.
func positionalInts(args []string) (calories, dishes int, err error) {
	calories, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("first argument has to be an integer")
	}
	dishes, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("second argument has to be an integer")
	}
	if dishes < 0 {
		return 0, 0, fmt.Errorf("second argument must not be negative")
	}
	return calories, dishes, nil
}

// setup loads the catalog and builds the solver named by the configuration.
func setup(cfg *config.Config) (*catalog.Catalog, solver.Solver, error) {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s, err := solver.New(cfg.Solver)
	if err != nil {
		return nil, nil, err
	}
	return cat, s, nil
}
