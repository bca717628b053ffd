package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/hrs/internal/directory"
	"github.com/steveyegge/hrs/internal/render"
	"github.com/steveyegge/hrs/internal/style"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch",
	GroupID: GroupBrowse,
	Short:   "Provision a sandbox and print its directory",
	Long: `Provision a sandbox for a provider and print the directory.

With --enrich, the personal and employment detail of every individual is
loaded as well. A failed detail call is reported and the remaining
individuals are still processed.

Examples:
  hrs fetch                              # Default provider
  hrs fetch --provider bamboo_hr --enrich
  hrs fetch --json | jq '.[].first_name'`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

var (
	fetchProvider string
	fetchEnrich   bool
	fetchJSON     bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchProvider, "provider", "", "Provider id (default: first catalog entry)")
	fetchCmd.Flags().BoolVar(&fetchEnrich, "enrich", false, "Load personal and employment detail for every individual")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print records as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	provider, err := cfg.ResolveProvider(fetchProvider)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := directory.NewSession(newClient(logger),
		directory.WithLogger(logger),
		directory.WithStickyLoading(cfg.StickyLoading),
	)
	out := cmd.OutOrStdout()

	if !fetchJSON {
		fmt.Fprintf(out, "%s Provisioning %s sandbox...\n", style.ArrowPrefix, provider.Name)
	}
	if err := session.Submit(ctx, provider.ID); err != nil {
		return errors.New(session.Snapshot().ErrorMessage)
	}

	if fetchEnrich {
		for _, r := range session.Snapshot().Records {
			if err := session.Enrich(ctx, r.ID()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", style.WarningPrefix, r.ID(), session.Snapshot().ErrorMessage)
				session.Acknowledge()
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}

	records := session.Snapshot().Records
	if fetchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	printPanels(out, render.Panels(records))
	return nil
}

func printPanels(out io.Writer, panels []render.Panel) {
	if len(panels) == 0 {
		fmt.Fprintln(out, style.Dim.Render(render.Placeholder))
		return
	}
	for _, p := range panels {
		fmt.Fprintf(out, "\n%s %s\n", style.Bold.Render(p.Title), style.Dim.Render("("+p.ID+")"))
		for _, l := range append(p.Lines, p.Details...) {
			if l.Items == nil {
				fmt.Fprintf(out, "  %s %s\n", style.Dim.Render(l.Label+":"), l.Value)
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", style.Dim.Render(l.Label+":"), strings.Join(l.Items, ", "))
		}
	}
}
