package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/graph"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task with its computed graph state, children,
// and feedback.
type ShowTaskOutput struct {
	Task      *domain.Task
	Children  []*domain.Task
	Feedback  []*domain.Feedback
	WaitingOn []string
	Ready     bool
}

// ShowTask retrieves one task with everything a reviewer needs: the record,
// its readiness, its direct children, and its feedback thread.
type ShowTask struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, feedback domain.FeedbackRepository) *ShowTask {
	return &ShowTask{tasks: tasks, feedback: feedback}
}

// Execute retrieves the task.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	idx := graph.BuildIndex(all)
	blocked := graph.ComputeBlocked(all)

	children, err := uc.tasks.GetChildren(task.ID)
	if err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}
	items, err := uc.feedback.ListFeedback(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	out := &ShowTaskOutput{
		Task:     task,
		Children: children,
		Feedback: items,
		Ready:    graph.IsReady(task, idx),
	}
	if info, ok := blocked[task.ID]; ok {
		out.WaitingOn = info.WaitingOn
	}
	return out, nil
}
