package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/graph"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID  string
	Token   string // Empty on the first, token-requesting call (force only)
	Force   bool   // Cascade into dependents
	Timeout time.Duration
}

// DeleteTaskOutput contains the result of a delete attempt.
// Fields are ordered to minimize memory padding.
type DeleteTaskOutput struct {
	Pending *domain.PendingApproval
	// PendingSet is the full id set a force delete will remove, returned on
	// the token-requesting call.
	PendingSet []string
	// Removed lists the ids actually deleted.
	Removed []string
	// Surviving lists ids from the captured set that could not be deleted.
	// Non-empty only on partial failure.
	Surviving []string
}

// DeleteTask is the use case for removing a task. Without force, the delete
// is rejected while other tasks still depend on the id; the task and its
// descendant sub-tasks are removed directly. With force, the full cascade set
// (transitive dependents plus descendants) is captured and gated behind an
// approval token; nothing is mutated until a valid token is presented. After
// any delete, dangling dependency references are stripped from survivors.
type DeleteTask struct {
	tasks   domain.TaskRepository
	gate    *shared.Gate
	reports *shared.Regenerator
	clock   domain.Clock
	logger  domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, gate *shared.Gate, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, gate: gate, reports: reports, clock: clock, logger: logger}
}

// Execute runs one step of the delete.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if !in.Force {
		if dependents := graph.DirectDependents(task.ID, all); len(dependents) > 0 {
			return nil, &domain.GraphError{Err: domain.ErrDependentsExist, TaskID: task.ID, IDs: dependents}
		}
		set := append([]string{task.ID}, graph.Descendants(task.ID, all)...)
		return uc.remove(set)
	}

	set := graph.CascadeSet(task.ID, all)
	result, err := uc.gate.Pass(ctx, shared.GateInput{
		Kind:        domain.OpDelete,
		Label:       "cascade delete",
		Description: fmt.Sprintf("delete %s and %d dependent/descendant task(s)", task.ID, len(set)-1),
		Token:       in.Token,
		TaskIDs:     set,
		Timeout:     in.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if result.Pending != nil {
		return &DeleteTaskOutput{Pending: result.Pending, PendingSet: result.Pending.TaskIDs}, nil
	}

	// Delete exactly the set captured when the request was opened, not a
	// freshly computed one.
	return uc.remove(result.Approved)
}

// remove deletes every id in the set, then strips the deleted ids from the
// dependency lists of surviving tasks. Partial failure is reported with the
// exact removed/surviving split rather than rolled back.
func (uc *DeleteTask) remove(set []string) (*DeleteTaskOutput, error) {
	removedSet := make(map[string]bool, len(set))
	var removed, surviving []string
	var firstErr error
	for _, id := range set {
		if err := uc.tasks.Delete(id); err != nil {
			surviving = append(surviving, id)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removedSet[id] = true
		removed = append(removed, id)
		if uc.logger != nil {
			uc.logger.Info(id, "task", "deleted")
		}
	}

	if err := uc.stripDangling(removedSet); err != nil {
		return &DeleteTaskOutput{Removed: removed, Surviving: surviving}, err
	}
	uc.reports.Regenerate()

	out := &DeleteTaskOutput{Removed: removed, Surviving: surviving}
	if firstErr != nil {
		return out, fmt.Errorf("delete incomplete, %d of %d task(s) still present (first failure: %w)",
			len(surviving), len(set), firstErr)
	}
	return out, nil
}

func (uc *DeleteTask) stripDangling(removed map[string]bool) error {
	if len(removed) == 0 {
		return nil
	}
	survivors, err := uc.tasks.List()
	if err != nil {
		return fmt.Errorf("list tasks after delete: %w", err)
	}
	now := uc.clock.Now()
	for _, t := range survivors {
		if !t.StripDependencies(removed) {
			continue
		}
		t.Touch(now)
		if err := uc.tasks.Put(t); err != nil {
			return fmt.Errorf("strip dependencies of %s: %w", t.ID, err)
		}
	}
	return nil
}

// CancelDeleteInput contains the parameters for canceling a pending delete.
type CancelDeleteInput struct {
	TaskID string
}

// CancelDeleteOutput contains the result of the cancellation.
type CancelDeleteOutput struct {
	RequestID string
}

// CancelDelete withdraws a pending cascade delete before a token has been
// presented, restoring normal operation with no residual state.
type CancelDelete struct {
	approvals domain.ApprovalChannel
	logger    domain.Logger
}

// NewCancelDelete creates a new CancelDelete use case.
func NewCancelDelete(approvals domain.ApprovalChannel, logger domain.Logger) *CancelDelete {
	return &CancelDelete{approvals: approvals, logger: logger}
}

// Execute cancels the pending delete touching the given task id. The cascade
// set may have been computed from an older listing, so the request is looked
// up by membership rather than recomputed.
func (uc *CancelDelete) Execute(ctx context.Context, in CancelDeleteInput) (*CancelDeleteOutput, error) {
	pending, err := uc.approvals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	for _, p := range pending {
		if !isDeleteRequest(p.RequestID) {
			continue
		}
		for _, id := range p.TaskIDs {
			if id != in.TaskID {
				continue
			}
			if err := uc.approvals.Cancel(ctx, p.RequestID); err != nil {
				return nil, fmt.Errorf("cancel approval %s: %w", p.RequestID, err)
			}
			if uc.logger != nil {
				uc.logger.Info(in.TaskID, "task", fmt.Sprintf("pending delete canceled (%s)", p.RequestID))
			}
			return &CancelDeleteOutput{RequestID: p.RequestID}, nil
		}
	}
	return nil, fmt.Errorf("no pending delete for task %q: %w", in.TaskID, domain.ErrApprovalNotFound)
}

func isDeleteRequest(requestID string) bool {
	prefix := string(domain.OpDelete) + "-"
	return len(requestID) > len(prefix) && requestID[:len(prefix)] == prefix
}
