package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/steveyegge/hrs/internal/doctor"
	"github.com/steveyegge/hrs/internal/style"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupConfig,
	Short:   "Check configuration and API reachability",
	Args:    cobra.NoArgs,
	RunE:    runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := &doctor.CheckContext{
		Ctx:    context.Background(),
		Config: cfg,
		Client: &http.Client{},
	}
	results := doctor.Run(ctx, doctor.DefaultChecks())

	out := cmd.OutOrStdout()
	for _, r := range results {
		prefix := style.SuccessPrefix
		switch r.Status {
		case doctor.StatusWarning:
			prefix = style.WarningPrefix
		case doctor.StatusError:
			prefix = style.ErrorPrefix
		}
		fmt.Fprintf(out, "%s %s: %s\n", prefix, style.Bold.Render(r.Name), r.Message)
		if r.FixHint != "" && r.Status != doctor.StatusOK {
			fmt.Fprintf(out, "    %s\n", style.Dim.Render(r.FixHint))
		}
	}

	if doctor.Worst(results) == doctor.StatusError {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}
