// Package cli provides the command-line interface for taskgate.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/taskgate/taskgate/internal/app"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupTask   = "task"
	groupReview = "review"
)

// NewRootCommand creates the root command for taskgate.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskgate",
		Short: "Task dependency and review workflow engine",
		Long: `taskgate tracks hierarchical tasks with explicit dependencies and
drives each one through a gated review cycle.

Starting a task creates four phase sub-tasks (plan, do, check, act) chained
by dependencies. Each phase submission is self-reviewed, then confirmed into
human review. Completing, skipping, or force-deleting a task requires an
approval token issued out of band.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupReview, Title: "Review Commands:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupTask

	feedbackCmd := newFeedbackCommand(c)
	feedbackCmd.GroupID = groupReview

	approvalsCmd := newApprovalsCommand(c)
	approvalsCmd.GroupID = groupReview

	root.AddCommand(initCmd, taskCmd, feedbackCmd, approvalsCmd)

	return root
}
