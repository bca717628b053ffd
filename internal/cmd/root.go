// Package cmd implements the hrs command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/steveyegge/hrs/internal/config"
	"github.com/steveyegge/hrs/internal/observability"
	"github.com/steveyegge/hrs/internal/sandbox"
)

// Command groups for help output.
const (
	GroupBrowse = "browse"
	GroupConfig = "config"
)

var (
	configPath string
	logLevel   string

	// Set by the root PersistentPreRunE for every subcommand.
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hrs",
	Short: "Browse HR sandbox directories",
	Long: `hrs provisions a sandbox connection for a payroll/HR provider and lets
you browse the directory and employment records it returns.

Run without a subcommand to open the interactive browser.

Examples:
  hrs                          # Interactive terminal browser
  hrs fetch --provider gusto   # Print the directory
  hrs serve                    # Browser UI on 127.0.0.1:8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runBrowse,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBrowse, Title: "Browsing:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration:"},
	)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (env "+observability.EnvLogLevel+")")
	rootCmd.Flags().StringVar(&browseProvider, "provider", "", "Provider id to preselect")
	rootCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file while the browser is open")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// loadRuntime loads configuration and sets up logging.
func loadRuntime(cmd *cobra.Command, args []string) error {
	logger = observability.InitLogger(os.Stderr, logLevel)

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newClient builds the sandbox client from the loaded config.
func newClient(l zerolog.Logger) *sandbox.Client {
	return sandbox.New(
		sandbox.WithBaseURL(cfg.BaseURL),
		sandbox.WithProxyURL(cfg.ProxyURL),
		sandbox.WithTimeout(cfg.RequestTimeout),
		sandbox.WithLogger(l),
	)
}

// requireSubcommand is the RunE of pure command groups.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", cmd.CommandPath())
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for usage", args[0], cmd.CommandPath(), cmd.CommandPath())
}

// quietLogger returns a logger that writes to path, or discards when empty.
func quietLogger(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path from flag
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	return observability.InitLogger(f, logLevel), f, nil
}
