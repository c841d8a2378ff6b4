package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// ApproveTaskInput contains the parameters for approving a task.
type ApproveTaskInput struct {
	TaskID  string
	Token   string // Empty on the first, token-requesting call
	Timeout time.Duration
}

// ApproveTaskOutput contains the result of an approval attempt. When Pending
// is non-nil the task was not mutated; the caller must retry with the issued
// token.
type ApproveTaskOutput struct {
	Task    *domain.Task
	Pending *domain.PendingApproval
}

// ApproveTask is the use case for the pending_review → completed transition.
// Completion is gated: the first call opens an approval request and mutates
// nothing; a later call carrying a valid token completes the task. Child
// terminality is re-checked at token-presentation time, not only at request
// time, so children started in between still veto completion.
type ApproveTask struct {
	tasks   domain.TaskRepository
	gate    *shared.Gate
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewApproveTask creates a new ApproveTask use case.
func NewApproveTask(tasks domain.TaskRepository, gate *shared.Gate, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *ApproveTask {
	return &ApproveTask{tasks: tasks, gate: gate, reports: reports, clock: clock, logger: logger}
}

// Execute runs one step of the gated approval.
func (uc *ApproveTask) Execute(ctx context.Context, in ApproveTaskInput) (*ApproveTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.StatusPendingReview {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "approve",
			From:   task.Status,
			To:     domain.StatusCompleted,
		}
	}
	if err := uc.checkChildren(task.ID); err != nil {
		return nil, err
	}

	result, err := uc.gate.Pass(ctx, shared.GateInput{
		Kind:        domain.OpComplete,
		Label:       "complete task",
		Description: fmt.Sprintf("complete %s (%s)", task.ID, task.Title),
		Token:       in.Token,
		TaskIDs:     []string{task.ID},
		Timeout:     in.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if result.Pending != nil {
		return &ApproveTaskOutput{Task: task, Pending: result.Pending}, nil
	}

	// The token may have been issued a while ago; re-check the children at
	// the moment of mutation.
	if err := uc.checkChildren(task.ID); err != nil {
		return nil, err
	}

	task.Status = domain.StatusCompleted
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "approved and completed")
	}
	uc.reports.Regenerate()

	return &ApproveTaskOutput{Task: task}, nil
}

func (uc *ApproveTask) checkChildren(taskID string) error {
	children, err := uc.tasks.GetChildren(taskID)
	if err != nil {
		return fmt.Errorf("get children: %w", err)
	}
	var open []string
	for _, c := range children {
		if !c.Status.IsTerminal() {
			open = append(open, c.ID)
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("task %q: %w: %v", taskID, domain.ErrChildrenNotTerminal, open)
	}
	return nil
}
