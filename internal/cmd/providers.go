package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:     "providers",
	GroupID: GroupConfig,
	Short:   "List the provider catalog",
	Long: `List the providers that can be provisioned.

The default provider (first catalog entry) is marked with an asterisk (*).`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, p := range cfg.Providers {
		marker := "  "
		if i == 0 {
			marker = "* "
		}
		fmt.Fprintf(out, "  %s%-16s %s\n", marker, p.ID, p.Name)
	}
	return nil
}
