package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// UpdateTaskInput contains the parameters for editing a pending task. Nil
// pointer fields are left unchanged.
// Fields are ordered to minimize memory padding.
type UpdateTaskInput struct {
	Title               *string
	Content             *string
	DependencyReason    *string
	Prerequisites       *string
	Dependencies        *[]string
	CompletionCriteria  *[]string
	Deliverables        *[]string
	ParallelizableUnits *[]string
	References          *[]string
	IsParallelizable    *bool
	TaskID              string
}

// UpdateTaskOutput contains the result of updating a task.
type UpdateTaskOutput struct {
	Task *domain.Task
}

// UpdateTask is the use case for editing the mutable fields of a pending
// task. Status is never touched here; it only moves through the transition
// actions. Dependency edits re-run the full graph validation.
type UpdateTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute applies the edits to the task.
func (uc *UpdateTask) Execute(_ context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusPending {
		return nil, fmt.Errorf("task %q is %s: %w", task.ID, task.Status, domain.ErrNotPendingTask)
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = *in.Title
	}
	if in.Content != nil {
		task.Content = *in.Content
	}
	if in.Prerequisites != nil {
		task.Prerequisites = *in.Prerequisites
	}
	if in.CompletionCriteria != nil {
		task.CompletionCriteria = *in.CompletionCriteria
	}
	if in.Deliverables != nil {
		task.Deliverables = *in.Deliverables
	}
	if in.ParallelizableUnits != nil {
		task.ParallelizableUnits = *in.ParallelizableUnits
	}
	if in.References != nil {
		task.References = *in.References
	}
	if in.IsParallelizable != nil {
		task.IsParallelizable = *in.IsParallelizable
	}

	if in.Dependencies != nil || in.DependencyReason != nil {
		deps := task.Dependencies
		if in.Dependencies != nil {
			deps = *in.Dependencies
		}
		reason := task.DependencyReason
		if in.DependencyReason != nil {
			reason = *in.DependencyReason
		}

		all, listErr := uc.tasks.List()
		if listErr != nil {
			return nil, fmt.Errorf("list tasks: %w", listErr)
		}
		if err := validateDependencies(task.ID, deps, reason, all); err != nil {
			return nil, err
		}
		task.Dependencies = deps
		task.DependencyReason = reason
		if len(task.Dependencies) == 0 {
			task.DependencyReason = ""
		}
	}

	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "updated")
	}
	uc.reports.Regenerate()

	return &UpdateTaskOutput{Task: task}, nil
}
