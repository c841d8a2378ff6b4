package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/graph"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	// Status filters the listing to one stored status ("" = all).
	Status domain.Status
	// ReadyOnly restricts the listing to tasks whose dependencies are all
	// terminal.
	ReadyOnly bool
}

// TaskRow is one line of the listing: the task plus its computed graph state.
// The Ready and WaitingOn columns are derived on every read, never persisted;
// the stored blocked status is a separate concept and shows up in
// Task.Status.
type TaskRow struct {
	Task      *domain.Task
	WaitingOn []string // Non-terminal dependencies holding this task back
	Ready     bool
}

// ListTasksOutput contains the listing.
type ListTasksOutput struct {
	Rows []*TaskRow
}

// ListTasks lists tasks with their computed readiness.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists the tasks.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	idx := graph.BuildIndex(all)
	blocked := graph.ComputeBlocked(all)

	rows := make([]*TaskRow, 0, len(all))
	for _, t := range all {
		if in.Status != "" && t.Status != in.Status {
			continue
		}
		ready := graph.IsReady(t, idx)
		if in.ReadyOnly && !ready {
			continue
		}
		row := &TaskRow{Task: t, Ready: ready}
		if info, ok := blocked[t.ID]; ok {
			row.WaitingOn = info.WaitingOn
		}
		rows = append(rows, row)
	}
	return &ListTasksOutput{Rows: rows}, nil
}
