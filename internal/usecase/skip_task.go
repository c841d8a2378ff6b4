package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// SkipTaskInput contains the parameters for skipping a task.
type SkipTaskInput struct {
	TaskID  string
	Reason  string // Required
	Token   string // Empty on the first, token-requesting call
	Timeout time.Duration
}

// SkipTaskOutput contains the result of a skip attempt.
type SkipTaskOutput struct {
	Task    *domain.Task
	Pending *domain.PendingApproval
}

// SkipTask is the use case for marking a task skipped. Skipping short-circuits
// normal completion and makes the task count as satisfied for its dependents,
// so it is gated behind an approval token like completion. Terminal tasks
// cannot be skipped.
type SkipTask struct {
	tasks   domain.TaskRepository
	gate    *shared.Gate
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewSkipTask creates a new SkipTask use case.
func NewSkipTask(tasks domain.TaskRepository, gate *shared.Gate, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *SkipTask {
	return &SkipTask{tasks: tasks, gate: gate, reports: reports, clock: clock, logger: logger}
}

// Execute runs one step of the gated skip.
func (uc *SkipTask) Execute(ctx context.Context, in SkipTaskInput) (*SkipTaskOutput, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("skip: %w", domain.ErrReasonRequired)
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status.IsTerminal() {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "skip",
			From:   task.Status,
			To:     domain.StatusSkipped,
		}
	}

	result, err := uc.gate.Pass(ctx, shared.GateInput{
		Kind:        domain.OpSkip,
		Label:       "skip task",
		Description: fmt.Sprintf("skip %s (%s): %s", task.ID, task.Title, in.Reason),
		Token:       in.Token,
		TaskIDs:     []string{task.ID},
		Timeout:     in.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if result.Pending != nil {
		return &SkipTaskOutput{Task: task, Pending: result.Pending}, nil
	}

	task.Status = domain.StatusSkipped
	task.SkipReason = in.Reason
	task.PreBlockStatus = ""
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("skipped: %s", in.Reason))
	}
	uc.reports.Regenerate()

	return &SkipTaskOutput{Task: task}, nil
}
