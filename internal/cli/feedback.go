package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/taskgate/taskgate/internal/app"
	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase"
)

// newFeedbackCommand creates the feedback command group.
func newFeedbackCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Manage reviewer feedback",
		Long: `Manage the feedback items attached to a task.

Each item progresses draft -> interpreted -> confirmed. The worker records
an interpretation of the reviewer comment, then confirms it; a confirmed
item is immutable until an act-phase submission marks it addressed.`,
	}

	cmd.AddCommand(
		newFeedbackInterpretCommand(c),
		newFeedbackConfirmCommand(c),
		newFeedbackListCommand(c),
		newFeedbackClearCommand(c),
	)

	return cmd
}

// newFeedbackInterpretCommand creates the interpret command.
func newFeedbackInterpretCommand(c *app.Container) *cobra.Command {
	var interpretation string

	cmd := &cobra.Command{
		Use:   "interpret <task-id> <feedback-id>",
		Short: "Record an interpretation of a feedback item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.InterpretFeedbackUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InterpretFeedbackInput{
				TaskID:         args[0],
				FeedbackID:     args[1],
				Interpretation: interpretation,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded interpretation for feedback %s\n", out.Feedback.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&interpretation, "as", "", "How the worker understood the comment (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

// newFeedbackConfirmCommand creates the confirm command.
func newFeedbackConfirmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <task-id> <feedback-id>",
		Short: "Confirm an interpreted feedback item",
		Long:  "Freeze a feedback item. Confirmation requires a recorded interpretation.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ConfirmFeedbackUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ConfirmFeedbackInput{
				TaskID:     args[0],
				FeedbackID: args[1],
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Confirmed feedback %s\n", out.Feedback.ID)
			return nil
		},
	}
}

// newFeedbackListCommand creates the list command for feedback.
func newFeedbackListCommand(c *app.Container) *cobra.Command {
	var unaddressed bool

	cmd := &cobra.Command{
		Use:   "list <task-id>",
		Short: "List feedback for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ListFeedbackUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListFeedbackInput{
				TaskID:          args[0],
				UnaddressedOnly: unaddressed,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Feedback) == 0 {
				_, _ = fmt.Fprintln(w, "No feedback")
				return nil
			}
			for _, fb := range out.Feedback {
				printFeedbackLine(w, fb)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unaddressed, "unaddressed", false, "Show only items not yet addressed")

	return cmd
}

// newFeedbackClearCommand creates the clear command.
func newFeedbackClearCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <task-id>",
		Short: "Remove all feedback from a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ClearFeedbackUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ClearFeedbackInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d feedback item(s)\n", out.Cleared)
			return nil
		},
	}
}

// printFeedbackLine prints one feedback item.
func printFeedbackLine(w io.Writer, fb *domain.Feedback) {
	state := string(fb.Status)
	if fb.IsAddressed() {
		state = "addressed by " + fb.AddressedBy
	}
	_, _ = fmt.Fprintf(w, "  [%s] (%s, %s) %s\n", fb.ID, fb.Decision, state, fb.Original)
	if fb.Interpretation != "" {
		_, _ = fmt.Fprintf(w, "      interpreted: %s\n", fb.Interpretation)
	}
}
