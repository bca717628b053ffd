package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/hrs/internal/web"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: GroupBrowse,
	Short:   "Serve the browser UI",
	Long: `Serve the directory browser as a web page.

Every browser gets its own in-memory session; nothing is persisted and
sessions are lost when the server stops. Prometheus metrics are exposed
at /metrics.

Example:
  hrs serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config web.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := web.NewServer(ctx, cfg, newClient(logger), logger)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}
	return srv.Run(ctx, addr)
}
