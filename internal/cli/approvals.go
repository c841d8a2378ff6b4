package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskgate/taskgate/internal/app"
	"github.com/taskgate/taskgate/internal/usecase"
)

// newApprovalsCommand creates the approvals command group.
func newApprovalsCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Manage pending approval requests",
	}

	cmd.AddCommand(
		newApprovalsListCommand(c),
		newApprovalsCancelCommand(c),
	)

	return cmd
}

// newApprovalsListCommand creates the list command for approvals.
func newApprovalsListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending approval requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListApprovalsUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Pending) == 0 {
				_, _ = fmt.Fprintln(w, "No pending approvals")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "REQUEST\tTASKS\tEXPIRES\tLABEL")
			for _, p := range out.Pending {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					p.RequestID,
					strings.Join(p.TaskIDs, ","),
					p.ExpiresAt.Format(time.RFC3339),
					p.Label)
			}
			return nil
		},
	}
}

// newApprovalsCancelCommand creates the cancel command for approvals.
func newApprovalsCancelCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <request-id>",
		Short: "Cancel a pending approval request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.CancelApprovalUseCase()
			if err := uc.Execute(cmd.Context(), usecase.CancelApprovalInput{RequestID: args[0]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Canceled approval request %s\n", args[0])
			return nil
		},
	}
}
