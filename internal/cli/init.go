package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskgate/taskgate/internal/app"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize the taskgate data directory.

This command creates the data directory with:
- tasks/: one Markdown file per task
- approvals/: pending approval requests
- logs/: global and per-task log files

Running init on an initialized store is a no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "taskgate already initialized in %s\n", c.Config.DataDir)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized taskgate in %s\n", c.Config.DataDir)
			return nil
		},
	}
}
