package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/taskgate/taskgate/internal/app"
	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase"
	"gopkg.in/yaml.v3"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskUpdateCommand(c),
		newTaskStartCommand(c),
		newTaskSubmitCommand(c),
		newTaskConfirmCommand(c),
		newTaskApproveCommand(c),
		newTaskChangesCommand(c),
		newTaskBlockCommand(c),
		newTaskUnblockCommand(c),
		newTaskSkipCommand(c),
		newTaskDeleteCommand(c),
	)

	return cmd
}

// newTaskAddCommand creates the add command for creating tasks.
func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title               string
		Content             string
		Parent              string
		DependencyReason    string
		Prerequisites       string
		Dependencies        []string
		CompletionCriteria  []string
		Deliverables        []string
		ParallelizableUnits []string
		References          []string
		Parallelizable      bool
	}

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Create a new task",
		Long: `Create a new task with status 'pending'.

Task ids are globally unique. Hierarchy is encoded in the id itself with
a "__" separator: "auth__api" is a sub-task of "auth". Dependencies must
name existing tasks, must not form a cycle, and require --reason.

Examples:
  # Create a root task
  taskgate task add auth --title "Auth refactoring"

  # Create a sub-task under auth
  taskgate task add auth__api --parent auth --title "Token endpoint"

  # Create a task that waits for two others
  taskgate task add deploy --title "Ship it" \
    --depends-on auth --depends-on billing \
    --reason "deploy needs both services finished"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.AddTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AddTaskInput{
				ID:                  args[0],
				Title:               opts.Title,
				Content:             opts.Content,
				Parent:              opts.Parent,
				DependencyReason:    opts.DependencyReason,
				Prerequisites:       opts.Prerequisites,
				Dependencies:        opts.Dependencies,
				CompletionCriteria:  opts.CompletionCriteria,
				Deliverables:        opts.Deliverables,
				ParallelizableUnits: opts.ParallelizableUnits,
				References:          opts.References,
				IsParallelizable:    opts.Parallelizable,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Content, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Parent task id")
	cmd.Flags().StringArrayVar(&opts.Dependencies, "depends-on", nil, "Task id that must finish first (can specify multiple)")
	cmd.Flags().StringVar(&opts.DependencyReason, "reason", "", "Why the dependencies exist (required with --depends-on)")
	cmd.Flags().StringVar(&opts.Prerequisites, "prerequisites", "", "What must be true before work starts")
	cmd.Flags().StringArrayVar(&opts.CompletionCriteria, "criterion", nil, "Completion criterion (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Deliverables, "deliverable", nil, "Expected deliverable (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.ParallelizableUnits, "parallel-unit", nil, "Id of a unit that may run concurrently")
	cmd.Flags().StringArrayVar(&opts.References, "reference", nil, "External document id")
	cmd.Flags().BoolVar(&opts.Parallelizable, "parallelizable", false, "Mark the task as parallelizable")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newTaskListCommand creates the list command for listing tasks.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		Ready  bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display a list of tasks.

Output is tab-separated with columns:
  ID, STATUS, READY, WAITING ON, TITLE

READY is "yes" when every dependency of the task is in a terminal status
(completed or skipped). WAITING ON lists the non-terminal dependencies
holding the task back.

Examples:
  # List all tasks
  taskgate task list

  # List only tasks awaiting review
  taskgate task list --status pending_review

  # List only tasks whose dependencies are all settled
  taskgate task list --ready`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := domain.Status(opts.Status)
			if opts.Status != "" && !status.IsValid() {
				return fmt.Errorf("unknown status %q", opts.Status)
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Status:    status,
				ReadyOnly: opts.Ready,
			})
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by stored status")
	cmd.Flags().BoolVar(&opts.Ready, "ready", false, "Show only tasks with all dependencies settled")

	return cmd
}

// newTaskShowCommand creates the show command for task details.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			printTaskDetail(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// newTaskUpdateCommand creates the update command for editing pending tasks.
func newTaskUpdateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title            string
		Content          string
		DependencyReason string
		Prerequisites    string
		Dependencies     []string
		Criteria         []string
		Deliverables     []string
		ParallelUnits    []string
		References       []string
		Parallelizable   bool
	}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a pending task",
		Long: `Update fields of a task that has not started yet.

Only tasks with status 'pending' can be updated. Flags that are not
provided leave the corresponding field unchanged. Editing dependencies
re-runs the full graph validation (existence, cycles, reason).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.UpdateTaskInput{TaskID: args[0]}

			flags := cmd.Flags()
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Content = &opts.Content
			}
			if flags.Changed("depends-on") {
				input.Dependencies = &opts.Dependencies
			}
			if flags.Changed("reason") {
				input.DependencyReason = &opts.DependencyReason
			}
			if flags.Changed("prerequisites") {
				input.Prerequisites = &opts.Prerequisites
			}
			if flags.Changed("criterion") {
				input.CompletionCriteria = &opts.Criteria
			}
			if flags.Changed("deliverable") {
				input.Deliverables = &opts.Deliverables
			}
			if flags.Changed("parallel-unit") {
				input.ParallelizableUnits = &opts.ParallelUnits
			}
			if flags.Changed("reference") {
				input.References = &opts.References
			}
			if flags.Changed("parallelizable") {
				input.IsParallelizable = &opts.Parallelizable
			}

			uc := c.UpdateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Content, "body", "", "New description")
	cmd.Flags().StringArrayVar(&opts.Dependencies, "depends-on", nil, "Replacement dependency list (empty to clear)")
	cmd.Flags().StringVar(&opts.DependencyReason, "reason", "", "Why the dependencies exist")
	cmd.Flags().StringVar(&opts.Prerequisites, "prerequisites", "", "New prerequisites")
	cmd.Flags().StringArrayVar(&opts.Criteria, "criterion", nil, "Replacement completion criteria")
	cmd.Flags().StringArrayVar(&opts.Deliverables, "deliverable", nil, "Replacement deliverables")
	cmd.Flags().StringArrayVar(&opts.ParallelUnits, "parallel-unit", nil, "Replacement parallelizable units")
	cmd.Flags().StringArrayVar(&opts.References, "reference", nil, "Replacement reference ids")
	cmd.Flags().BoolVar(&opts.Parallelizable, "parallelizable", false, "Mark the task as parallelizable")

	return cmd
}

// newTaskStartCommand creates the start command.
func newTaskStartCommand(c *app.Container) *cobra.Command {
	var instructions string

	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a task",
		Long: `Move a pending task to 'in_progress'.

The task must be ready: every dependency must be completed or skipped.
On first start, four phase sub-tasks (plan, do, check, act) are created,
each depending on the previous one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.StartTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.StartTaskInput{
				TaskID:       args[0],
				Instructions: instructions,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Started task %s\n", out.Task.ID)
			for _, id := range out.CreatedPhases {
				_, _ = fmt.Fprintf(w, "  created %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&instructions, "instructions", "", "Work instructions persisted on the task")

	return cmd
}

// newTaskSubmitCommand creates the submit command for phase submissions.
func newTaskSubmitCommand(c *app.Container) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit <plan|do|check|act> <id>",
		Short: "Submit a phase payload",
		Long: `Submit the payload for a phase sub-task.

The phase argument must match the phase encoded in the task id suffix:
'submit do auth__do' is valid, 'submit check auth__do' is rejected. The
payload is read as YAML from --file (or stdin when --file is "-").

Common fields (required for every phase):
  what, why, how, blockers, risks, references_reason, guidance

Phase-specific fields:
  plan:  findings, sources
  do:    changes, design_decisions
  check: test_target, test_results, coverage
  act:   changes, feedback_addressed

On success the task moves to 'self_review'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := domain.Phase(args[0])
			if !phase.IsValid() {
				return fmt.Errorf("unknown phase %q (want plan, do, check, or act)", args[0])
			}

			sub, err := readSubmission(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			uc := c.SubmitPhaseUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.SubmitPhaseInput{
				TaskID:     args[1],
				Phase:      phase,
				Submission: sub,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s for %s, now in self_review\n", phase, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "YAML submission file (\"-\" for stdin)")

	return cmd
}

// readSubmission parses a submission payload from a file or stdin.
func readSubmission(stdin io.Reader, file string) (*domain.Submission, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	var sub domain.Submission
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	return &sub, nil
}

// newTaskConfirmCommand creates the confirm command.
func newTaskConfirmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a self-reviewed submission",
		Long:  "Move a task from 'self_review' to 'pending_review' so a human can review it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ConfirmTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ConfirmTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now pending review\n", out.Task.ID)
			return nil
		},
	}
}

// newTaskApproveCommand creates the approve command.
func newTaskApproveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Token   string
		Timeout time.Duration
	}

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve and complete a task",
		Long: `Complete a task in 'pending_review'.

Completion is gated: the first call opens an approval request and prints
where to find the token; calling again with --token completes the task.
Every sub-task must already be terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ApproveTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ApproveTaskInput{
				TaskID:  args[0],
				Token:   opts.Token,
				Timeout: opts.Timeout,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Pending != nil {
				printPendingApproval(w, out.Pending)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Task %s completed\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "Approval token from a previous request")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Approval request lifetime (default from config)")

	return cmd
}

// newTaskChangesCommand creates the changes command for reviewer feedback.
func newTaskChangesCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Comment string
		Adopted bool
	}

	cmd := &cobra.Command{
		Use:   "changes <id>",
		Short: "Request changes on a task under review",
		Long: `Reject the current submission of a task in 'pending_review'.

The comment is recorded as a draft feedback item and the task returns to
'in_progress' for rework. Use --adopted when the reviewer comment was
accepted as-is rather than contested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := domain.DecisionRejected
			if opts.Adopted {
				decision = domain.DecisionAdopted
			}

			uc := c.RequestChangesUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.RequestChangesInput{
				TaskID:   args[0],
				Comment:  opts.Comment,
				Decision: decision,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded feedback %s, task %s back in progress\n", out.Feedback.ID, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Comment, "comment", "", "Reviewer comment (required)")
	cmd.Flags().BoolVar(&opts.Adopted, "adopted", false, "Mark the comment as adopted")
	_ = cmd.MarkFlagRequired("comment")

	return cmd
}

// newTaskBlockCommand creates the block command.
func newTaskBlockCommand(c *app.Container) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "block <id>",
		Short: "Block a task",
		Long: `Mark a task as blocked by an external condition.

The previous status is remembered and restored by 'unblock'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.BlockTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.BlockTaskInput{
				TaskID: args[0],
				Reason: reason,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Blocked task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the task is blocked (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

// newTaskUnblockCommand creates the unblock command.
func newTaskUnblockCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <id>",
		Short: "Unblock a task",
		Long:  "Restore a blocked task to the status it had before the block.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.UnblockTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.UnblockTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", out.Task.ID, out.Task.Status)
			return nil
		},
	}
}

// newTaskSkipCommand creates the skip command.
func newTaskSkipCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Reason  string
		Token   string
		Timeout time.Duration
	}

	cmd := &cobra.Command{
		Use:   "skip <id>",
		Short: "Skip a task",
		Long: `Short-circuit a non-terminal task to 'skipped'.

A skipped task satisfies the dependencies of downstream tasks just like
a completed one. Skipping is gated the same way as approval: the first
call opens a request, calling again with --token applies the skip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.SkipTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.SkipTaskInput{
				TaskID:  args[0],
				Reason:  opts.Reason,
				Token:   opts.Token,
				Timeout: opts.Timeout,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Pending != nil {
				printPendingApproval(w, out.Pending)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Task %s skipped\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "", "Why the task is skipped (required)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Approval token from a previous request")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Approval request lifetime (default from config)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

// newTaskDeleteCommand creates the delete command.
func newTaskDeleteCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Token   string
		Timeout time.Duration
		Force   bool
		Cancel  bool
	}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long: `Delete a task and its sub-tasks.

Without --force the delete is rejected when other tasks depend on the
target. With --force the cascade extends to every dependent (and their
sub-tasks) and is gated behind an approval token: the first call prints
the full set that would be removed, calling again with --token applies
it. Survivors that depended on removed tasks have those dependencies
stripped.

Use --cancel to withdraw an outstanding force-delete request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if opts.Cancel {
				uc := c.CancelDeleteUseCase()
				out, err := uc.Execute(cmd.Context(), usecase.CancelDeleteInput{TaskID: args[0]})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "Canceled delete request %s\n", out.RequestID)
				return nil
			}

			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{
				TaskID:  args[0],
				Token:   opts.Token,
				Force:   opts.Force,
				Timeout: opts.Timeout,
			})
			if err != nil {
				return err
			}

			if out.Pending != nil {
				_, _ = fmt.Fprintf(w, "Force delete would remove %d task(s): %s\n",
					len(out.PendingSet), strings.Join(out.PendingSet, ", "))
				printPendingApproval(w, out.Pending)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Deleted %d task(s): %s\n", len(out.Removed), strings.Join(out.Removed, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Cascade into dependents (requires approval)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Approval token from a previous request")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Approval request lifetime (default from config)")
	cmd.Flags().BoolVar(&opts.Cancel, "cancel", false, "Withdraw an outstanding force-delete request")

	return cmd
}

// statusColors maps each status to its badge color.
var statusColors = map[domain.Status]*color.Color{
	domain.StatusPending:       color.New(color.FgWhite),
	domain.StatusInProgress:    color.New(color.FgCyan),
	domain.StatusSelfReview:    color.New(color.FgYellow),
	domain.StatusPendingReview: color.New(color.FgMagenta),
	domain.StatusCompleted:     color.New(color.FgGreen),
	domain.StatusBlocked:       color.New(color.FgRed),
	domain.StatusSkipped:       color.New(color.FgHiBlack),
}

func statusBadge(s domain.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

// printTaskList prints task rows in TSV format.
func printTaskList(w io.Writer, rows []*usecase.TaskRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tREADY\tWAITING ON\tTITLE")

	for _, row := range rows {
		ready := "-"
		if row.Task.Status == domain.StatusPending {
			ready = "no"
			if row.Ready {
				ready = "yes"
			}
		}
		waiting := "-"
		if len(row.WaitingOn) > 0 {
			waiting = strings.Join(row.WaitingOn, ",")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Task.ID, statusBadge(row.Task.Status), ready, waiting, row.Task.Title)
	}
}

// printTaskDetail prints the full task view.
func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Task

	_, _ = fmt.Fprintf(w, "Task: %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Title: %s\n", t.Title)
	_, _ = fmt.Fprintf(w, "Status: %s\n", statusBadge(t.Status))
	if t.Parent != "" {
		_, _ = fmt.Fprintf(w, "Parent: %s\n", t.Parent)
	}
	if len(t.Dependencies) > 0 {
		_, _ = fmt.Fprintf(w, "Depends on: %s (%s)\n", strings.Join(t.Dependencies, ", "), t.DependencyReason)
		if t.Status == domain.StatusPending {
			if out.Ready {
				_, _ = fmt.Fprintln(w, "Ready: yes")
			} else {
				_, _ = fmt.Fprintf(w, "Ready: no, waiting on %s\n", strings.Join(out.WaitingOn, ", "))
			}
		}
	}
	if t.BlockReason != "" {
		_, _ = fmt.Fprintf(w, "Block reason: %s\n", t.BlockReason)
	}
	if t.SkipReason != "" {
		_, _ = fmt.Fprintf(w, "Skip reason: %s\n", t.SkipReason)
	}
	if t.Prerequisites != "" {
		_, _ = fmt.Fprintf(w, "Prerequisites: %s\n", t.Prerequisites)
	}
	if t.Instructions != "" {
		_, _ = fmt.Fprintf(w, "Instructions: %s\n", t.Instructions)
	}
	if t.Content != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Content)
	}
	if len(t.CompletionCriteria) > 0 {
		_, _ = fmt.Fprintln(w, "\nCompletion criteria:")
		for _, cr := range t.CompletionCriteria {
			_, _ = fmt.Fprintf(w, "  - %s\n", cr)
		}
	}
	if len(t.Deliverables) > 0 {
		_, _ = fmt.Fprintln(w, "\nDeliverables:")
		for _, d := range t.Deliverables {
			_, _ = fmt.Fprintf(w, "  - %s\n", d)
		}
	}
	if t.Output != "" {
		_, _ = fmt.Fprintf(w, "\nLatest output: %s\n", t.Output)
	}
	if len(out.Children) > 0 {
		_, _ = fmt.Fprintln(w, "\nSub-tasks:")
		for _, child := range out.Children {
			_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", child.ID, statusBadge(child.Status), child.Title)
		}
	}
	if len(out.Feedback) > 0 {
		_, _ = fmt.Fprintln(w, "\nFeedback:")
		for _, fb := range out.Feedback {
			printFeedbackLine(w, fb)
		}
	}
}

// printPendingApproval prints an approval request descriptor.
func printPendingApproval(w io.Writer, p *domain.PendingApproval) {
	if p.Resent {
		_, _ = fmt.Fprintf(w, "Approval already requested: %s\n", p.RequestID)
	} else {
		_, _ = fmt.Fprintf(w, "Approval requested: %s\n", p.RequestID)
	}
	_, _ = fmt.Fprintf(w, "  %s\n", p.Description)
	_, _ = fmt.Fprintf(w, "  Token file: %s\n", p.FallbackPath)
	_, _ = fmt.Fprintf(w, "  Expires: %s\n", p.ExpiresAt.Format(time.RFC3339))
	_, _ = fmt.Fprintln(w, "Re-run the command with --token once approved.")
}
