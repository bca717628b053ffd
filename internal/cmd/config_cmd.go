package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/steveyegge/hrs/internal/config"
	"github.com/steveyegge/hrs/internal/style"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Manage the hrs config file",
	RunE:    requireSubcommand,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the default configuration, including the provider catalog, to
./hrs.toml or the given path. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	// The file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file, .env and the
PROXY_URL environment variable have been applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.Init(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", style.SuccessPrefix, path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	source := "built-in defaults"
	if cfg.Path != "" {
		source = cfg.Path
	}
	fmt.Fprintf(out, "# source: %s\n", source)
	return toml.NewEncoder(out).Encode(cfg)
}
