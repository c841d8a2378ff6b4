package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// BlockTaskInput contains the parameters for blocking a task.
type BlockTaskInput struct {
	TaskID string
	Reason string // Required
}

// BlockTaskOutput contains the result of blocking a task.
type BlockTaskOutput struct {
	Task *domain.Task
}

// BlockTask is the use case for the explicit block action. The stored blocked
// status records externally caused stoppage (waiting on a human, an outage);
// it is distinct from the computed not-ready state, which is never persisted.
// The pre-block status is recorded so unblock can restore it.
type BlockTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewBlockTask creates a new BlockTask use case.
func NewBlockTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *BlockTask {
	return &BlockTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute blocks the task.
func (uc *BlockTask) Execute(_ context.Context, in BlockTaskInput) (*BlockTaskOutput, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("block: %w", domain.ErrReasonRequired)
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(domain.StatusBlocked) {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "block",
			From:   task.Status,
			To:     domain.StatusBlocked,
		}
	}

	task.PreBlockStatus = task.Status
	task.Status = domain.StatusBlocked
	task.BlockReason = in.Reason
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("blocked: %s", in.Reason))
	}
	uc.reports.Regenerate()

	return &BlockTaskOutput{Task: task}, nil
}

// UnblockTaskInput contains the parameters for unblocking a task.
type UnblockTaskInput struct {
	TaskID string
}

// UnblockTaskOutput contains the result of unblocking a task.
type UnblockTaskOutput struct {
	Task *domain.Task
}

// UnblockTask restores the status the task had before it was blocked.
type UnblockTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewUnblockTask creates a new UnblockTask use case.
func NewUnblockTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *UnblockTask {
	return &UnblockTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute unblocks the task.
func (uc *UnblockTask) Execute(_ context.Context, in UnblockTaskInput) (*UnblockTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusBlocked {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "unblock",
			From:   task.Status,
			To:     task.PreBlockStatus,
			Hint:   "only blocked tasks can be unblocked",
		}
	}

	restored := task.PreBlockStatus
	if restored == "" {
		restored = domain.StatusPending
	}
	task.Status = restored
	task.PreBlockStatus = ""
	task.BlockReason = ""
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("unblocked, restored to %s", restored))
	}
	uc.reports.Regenerate()

	return &UnblockTaskOutput{Task: task}, nil
}
