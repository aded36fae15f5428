package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list and cart over HTTP",
	Long: `Serve the task list and cart as a JSON API for a browser front-end.

Examples:
  ironlist serve
  ironlist serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withApp(cmd, func(_ context.Context, app *dispatch.App) error {
		fmt.Fprintf(cmd.OutOrStdout(), "ironlist listening on %s\n", addr)
		if err := server.New(app).Run(ctx, addr); err != nil {
			logger.Error("Server failed", logger.F("error", err))
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
}
