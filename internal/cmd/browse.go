package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steveyegge/hrs/internal/directory"
	"github.com/steveyegge/hrs/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	GroupID: GroupBrowse,
	Short:   "Open the interactive terminal browser",
	Long: `Open the interactive terminal browser.

Pick a provider and press enter to provision a sandbox and load its
directory. Tab moves to the record list, where enter expands a record
and 'l' loads its personal and employment detail.

Logs are discarded while the browser is open unless --log-file is given.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

var (
	browseProvider string
	browseLogFile  string
)

func init() {
	browseCmd.Flags().StringVar(&browseProvider, "provider", "", "Provider id to preselect")
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file while the browser is open")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs a terminal; use 'hrs fetch' for scripted output")
	}

	provider, err := cfg.ResolveProvider(browseProvider)
	if err != nil {
		return err
	}

	l, closer, err := quietLogger(browseLogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newClient(l)
	session := directory.NewSession(client,
		directory.WithLogger(l),
		directory.WithStickyLoading(cfg.StickyLoading),
	)
	model := tui.New(ctx, session, client, cfg.Providers, provider.ID)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
