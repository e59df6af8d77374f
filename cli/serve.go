package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"menuplan/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dish selection over HTTP",
		Long: `Start an HTTP server answering POST /plan and POST /plans with JSON
selections from the configured catalog. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			cat, s, err := setup(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cat, s,
				server.WithLogger(GetLogger(cmd.Context())),
				server.WithTimeout(cfg.Timeout),
				server.WithWorkers(cfg.Workers))
			return srv.Serve(ctx, cfg.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Int("workers", 0, "plans of one batch solved at once")

	return cmd
}
