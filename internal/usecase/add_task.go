// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/graph"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// AddTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type AddTaskInput struct {
	ID                  string // Task id (required; hierarchy via "__")
	Title               string // Task title (required)
	Content             string // Free-text body
	Parent              string // Parent task id (optional)
	DependencyReason    string // Required iff Dependencies is non-empty
	Prerequisites       string
	Dependencies        []string
	CompletionCriteria  []string
	Deliverables        []string
	ParallelizableUnits []string
	References          []string
	IsParallelizable    bool
}

// AddTaskOutput contains the result of creating a new task.
type AddTaskOutput struct {
	Task *domain.Task
}

// AddTask is the use case for creating a new task. The task is validated
// against the dependency graph (missing dependencies, cycles) before any
// write.
type AddTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *AddTask {
	return &AddTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute creates a new task with the given input.
func (uc *AddTask) Execute(_ context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	if !domain.ValidateID(in.ID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, in.ID)
	}
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	existing, err := uc.tasks.Get(in.ID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("task %q: %w", in.ID, domain.ErrTaskExists)
	}

	if in.Parent != "" {
		if _, err := shared.GetTask(uc.tasks, in.Parent); err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := validateDependencies(in.ID, in.Dependencies, in.DependencyReason, all); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	task := &domain.Task{
		Created:             now,
		Updated:             now,
		ID:                  in.ID,
		Title:               in.Title,
		Content:             in.Content,
		Parent:              in.Parent,
		DependencyReason:    in.DependencyReason,
		Prerequisites:       in.Prerequisites,
		Status:              domain.StatusPending,
		Dependencies:        in.Dependencies,
		CompletionCriteria:  in.CompletionCriteria,
		Deliverables:        in.Deliverables,
		ParallelizableUnits: in.ParallelizableUnits,
		References:          in.References,
		IsParallelizable:    in.IsParallelizable,
	}

	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("created (title: %s, deps: %d)", task.Title, len(task.Dependencies)))
	}
	uc.reports.Regenerate()

	return &AddTaskOutput{Task: task}, nil
}

// validateDependencies runs the graph preconditions shared by add and update:
// no self dependency, a reason when dependencies are set, every dependency
// exists, and no cycle through non-terminal tasks.
func validateDependencies(id string, deps []string, reason string, all []*domain.Task) error {
	for _, dep := range deps {
		if dep == id {
			return &domain.GraphError{Err: domain.ErrSelfDependency, TaskID: id, IDs: []string{dep}}
		}
	}
	if len(deps) > 0 && reason == "" {
		return &domain.GraphError{Err: domain.ErrDependencyReason, TaskID: id}
	}

	idx := graph.BuildIndex(all)
	if missing := graph.MissingDependencies(deps, idx); len(missing) > 0 {
		return &domain.GraphError{Err: domain.ErrMissingDependencies, TaskID: id, IDs: missing}
	}
	if graph.WouldCreateCycle(id, deps, idx) {
		return &domain.GraphError{Err: domain.ErrDependencyCycle, TaskID: id, IDs: deps}
	}
	return nil
}
