package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// ConfirmTaskInput contains the parameters for confirming self-review.
type ConfirmTaskInput struct {
	TaskID string
}

// ConfirmTaskOutput contains the result of confirming a task.
type ConfirmTaskOutput struct {
	Task *domain.Task
}

// ConfirmTask is the use case for the self_review → pending_review
// transition: the agent has finished self-checking and the work now awaits a
// human reviewer. No additional payload.
type ConfirmTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewConfirmTask creates a new ConfirmTask use case.
func NewConfirmTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *ConfirmTask {
	return &ConfirmTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute confirms the task.
func (uc *ConfirmTask) Execute(_ context.Context, in ConfirmTaskInput) (*ConfirmTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.StatusSelfReview {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "confirm",
			From:   task.Status,
			To:     domain.StatusPendingReview,
		}
	}

	task.Status = domain.StatusPendingReview
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "confirmed, awaiting review")
	}
	uc.reports.Regenerate()

	return &ConfirmTaskOutput{Task: task}, nil
}
