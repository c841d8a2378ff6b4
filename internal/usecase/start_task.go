package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/graph"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// StartTaskInput contains the parameters for starting a task.
type StartTaskInput struct {
	TaskID       string
	Instructions string // Work instructions persisted on the task
}

// StartTaskOutput contains the result of starting a task.
type StartTaskOutput struct {
	Task *domain.Task
	// CreatedPhases lists the auto-created phase sub-task ids, in execution
	// order. Empty when the task already had children.
	CreatedPhases []string
}

// StartTask is the use case for the pending → in_progress transition. A task
// can only start when every dependency has reached a terminal status. When
// the task has no existing children, the four phase sub-tasks are created
// with a chained plan → do → check → act dependency. This is the only
// automatic task creation in the system.
type StartTask struct {
	tasks   domain.TaskRepository
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewStartTask creates a new StartTask use case.
func NewStartTask(tasks domain.TaskRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *StartTask {
	return &StartTask{tasks: tasks, reports: reports, clock: clock, logger: logger}
}

// Execute starts the task.
func (uc *StartTask) Execute(_ context.Context, in StartTaskInput) (*StartTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.StatusPending {
		return nil, &domain.TransitionError{
			TaskID: task.ID,
			Action: "start",
			From:   task.Status,
			To:     domain.StatusInProgress,
		}
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	idx := graph.BuildIndex(all)
	if !graph.IsReady(task, idx) {
		waiting := graph.MissingDependencies(task.Dependencies, idx)
		if len(waiting) == 0 {
			for _, dep := range task.Dependencies {
				if d, ok := idx[dep]; ok && !d.Status.IsTerminal() {
					waiting = append(waiting, dep)
				}
			}
		}
		return nil, &domain.GraphError{Err: domain.ErrTaskNotReady, TaskID: task.ID, IDs: waiting}
	}

	children, err := uc.tasks.GetChildren(task.ID)
	if err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}

	now := uc.clock.Now()
	var created []string
	// Phase sub-tasks are leaves of the cycle; decomposing them again would
	// recurse forever.
	if len(children) == 0 && !task.IsPhaseTask() {
		created = make([]string, 0, 4)
		var prev string
		for _, p := range domain.Phases() {
			phase := &domain.Task{
				Created: now,
				Updated: now,
				ID:      domain.PhaseID(task.ID, p),
				Title:   fmt.Sprintf("%s: %s phase", task.Title, p),
				Parent:  task.ID,
				Status:  domain.StatusPending,
			}
			if prev != "" {
				phase.Dependencies = []string{prev}
				phase.DependencyReason = fmt.Sprintf("%s follows %s in the review cycle", p, prevPhase(p))
			}
			if err := uc.tasks.Put(phase); err != nil {
				return nil, fmt.Errorf("create %s sub-task: %w", p, err)
			}
			created = append(created, phase.ID)
			prev = phase.ID
		}
	}

	task.Status = domain.StatusInProgress
	task.Instructions = in.Instructions
	task.Touch(now)
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		if len(created) > 0 {
			uc.logger.Info(task.ID, "task", fmt.Sprintf("started, created phase sub-tasks: %v", created))
		} else {
			uc.logger.Info(task.ID, "task", "started")
		}
	}
	uc.reports.Regenerate()

	return &StartTaskOutput{Task: task, CreatedPhases: created}, nil
}

func prevPhase(p domain.Phase) domain.Phase {
	phases := domain.Phases()
	for i, q := range phases {
		if q == p && i > 0 {
			return phases[i-1]
		}
	}
	return p
}
