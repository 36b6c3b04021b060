package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todo-cli/internal/monitoring"
	"todo-cli/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve command
func NewServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(true)
			if err != nil {
				return err
			}
			defer s.close()

			if addr == "" {
				addr = s.cfg.GetServerAddr()
			}

			health := monitoring.NewHealthChecker(0)
			health.Register("database", func(ctx context.Context) error {
				return s.repo.Pool().Health()
			})
			health.RegisterDetails("database", s.repo.Pool().Stats)

			s.log.Info("serve_config",
				zap.String("db_path", s.cfg.Database.Path),
				zap.Bool("rate_limit", s.cfg.RateLimit.Enabled),
				zap.Strings("allowed_origins", s.cfg.Server.AllowedOrigins),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(s.cfg, s.service, health, s.log).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.host and server.port)")
	return cmd
}
