// Package shared contains helpers used across use cases.
package shared

import (
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
)

// GetTask retrieves a task by id and returns domain.ErrTaskNotFound if not
// found. This centralizes the common pattern of:
//
//	task, err := repo.Get(id)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(repo domain.TaskRepository, id string) (*domain.Task, error) {
	task, err := repo.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %q: %w", id, domain.ErrTaskNotFound)
	}
	return task, nil
}
