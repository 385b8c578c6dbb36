package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txparse/internal/api"
	"github.com/cleared-dev/txparse/internal/buildinfo"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parsers over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func runServe(ctx context.Context, opts *globalOptions, addr string) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	gin.SetMode(ginMode(a.cfg.Logging.Level))

	cfg := api.DefaultConfig()
	cfg.Addr = addr
	cfg.MinConfidence = a.cfg.Review.MinConfidence
	cfg.Version = buildinfo.Version
	srv := api.NewServer(cfg, a.tax, a.voice, a.receipt, a.log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

// ginMode keeps gin's route dump and debug warnings out of the log unless
// debug logging was asked for.
func ginMode(level string) string {
	if level == "debug" || level == "trace" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
