package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
	"github.com/taskgate/taskgate/internal/usecase/shared"
)

// InterpretFeedbackInput contains the parameters for recording an
// interpretation.
type InterpretFeedbackInput struct {
	TaskID         string
	FeedbackID     string
	Interpretation string
}

// InterpretFeedbackOutput contains the updated feedback.
type InterpretFeedbackOutput struct {
	Feedback *domain.Feedback
}

// InterpretFeedback records the agent's reading of a raw reviewer comment.
// Interpretation can only be set while the feedback is still a draft.
type InterpretFeedback struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	logger   domain.Logger
}

// NewInterpretFeedback creates a new InterpretFeedback use case.
func NewInterpretFeedback(tasks domain.TaskRepository, feedback domain.FeedbackRepository, logger domain.Logger) *InterpretFeedback {
	return &InterpretFeedback{tasks: tasks, feedback: feedback, logger: logger}
}

// Execute records the interpretation.
func (uc *InterpretFeedback) Execute(_ context.Context, in InterpretFeedbackInput) (*InterpretFeedbackOutput, error) {
	if in.Interpretation == "" {
		return nil, &domain.ValidationError{Action: "interpret", Missing: []string{"interpretation"}}
	}
	if _, err := shared.GetTask(uc.tasks, in.TaskID); err != nil {
		return nil, err
	}

	fb, err := uc.feedback.GetFeedback(in.TaskID, in.FeedbackID)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if fb.IsConfirmed() {
		return nil, fmt.Errorf("feedback %s: %w", fb.ID, domain.ErrInterpretationSet)
	}

	fb.Interpretation = in.Interpretation
	if err := uc.feedback.PutFeedback(fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "feedback", fmt.Sprintf("interpretation recorded for %s", fb.ID))
	}
	return &InterpretFeedbackOutput{Feedback: fb}, nil
}

// ConfirmFeedbackInput contains the parameters for confirming feedback.
type ConfirmFeedbackInput struct {
	TaskID     string
	FeedbackID string
}

// ConfirmFeedbackOutput contains the confirmed feedback.
type ConfirmFeedbackOutput struct {
	Feedback *domain.Feedback
}

// ConfirmFeedback moves a feedback item from draft to confirmed. Confirmation
// requires a recorded interpretation; a confirmed item is immutable except
// for the addressed_by stamp.
type ConfirmFeedback struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	logger   domain.Logger
}

// NewConfirmFeedback creates a new ConfirmFeedback use case.
func NewConfirmFeedback(tasks domain.TaskRepository, feedback domain.FeedbackRepository, logger domain.Logger) *ConfirmFeedback {
	return &ConfirmFeedback{tasks: tasks, feedback: feedback, logger: logger}
}

// Execute confirms the feedback.
func (uc *ConfirmFeedback) Execute(_ context.Context, in ConfirmFeedbackInput) (*ConfirmFeedbackOutput, error) {
	if _, err := shared.GetTask(uc.tasks, in.TaskID); err != nil {
		return nil, err
	}

	fb, err := uc.feedback.GetFeedback(in.TaskID, in.FeedbackID)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if fb.IsConfirmed() {
		return nil, fmt.Errorf("feedback %s: %w", fb.ID, domain.ErrFeedbackConfirmed)
	}
	if fb.Interpretation == "" {
		return nil, fmt.Errorf("feedback %s: %w", fb.ID, domain.ErrNoInterpretation)
	}

	fb.Status = domain.FeedbackConfirmed
	if err := uc.feedback.PutFeedback(fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "feedback", fmt.Sprintf("feedback %s confirmed", fb.ID))
	}
	return &ConfirmFeedbackOutput{Feedback: fb}, nil
}

// ListFeedbackInput contains the parameters for listing feedback.
type ListFeedbackInput struct {
	TaskID string
	// UnaddressedOnly restricts the listing to items not yet resolved by a
	// later submission.
	UnaddressedOnly bool
}

// ListFeedbackOutput contains the feedback listing.
type ListFeedbackOutput struct {
	Feedback []*domain.Feedback
}

// ListFeedback lists the feedback attached to a task, in creation order.
type ListFeedback struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
}

// NewListFeedback creates a new ListFeedback use case.
func NewListFeedback(tasks domain.TaskRepository, feedback domain.FeedbackRepository) *ListFeedback {
	return &ListFeedback{tasks: tasks, feedback: feedback}
}

// Execute lists the feedback.
func (uc *ListFeedback) Execute(_ context.Context, in ListFeedbackInput) (*ListFeedbackOutput, error) {
	if _, err := shared.GetTask(uc.tasks, in.TaskID); err != nil {
		return nil, err
	}

	items, err := uc.feedback.ListFeedback(in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if in.UnaddressedOnly {
		kept := items[:0]
		for _, fb := range items {
			if !fb.IsAddressed() {
				kept = append(kept, fb)
			}
		}
		items = kept
	}
	return &ListFeedbackOutput{Feedback: items}, nil
}

// ClearFeedbackInput contains the parameters for clearing feedback.
type ClearFeedbackInput struct {
	TaskID string
}

// ClearFeedbackOutput contains the result of clearing feedback.
type ClearFeedbackOutput struct {
	Cleared int
}

// ClearFeedback removes every feedback item of a task. This and cascade
// delete are the only ways feedback is removed.
type ClearFeedback struct {
	tasks    domain.TaskRepository
	feedback domain.FeedbackRepository
	reports  *shared.Regenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewClearFeedback creates a new ClearFeedback use case.
func NewClearFeedback(tasks domain.TaskRepository, feedback domain.FeedbackRepository, reports *shared.Regenerator, clock domain.Clock, logger domain.Logger) *ClearFeedback {
	return &ClearFeedback{tasks: tasks, feedback: feedback, reports: reports, clock: clock, logger: logger}
}

// Execute clears the task's feedback.
func (uc *ClearFeedback) Execute(_ context.Context, in ClearFeedbackInput) (*ClearFeedbackOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	cleared := len(task.Feedback)
	if err := uc.feedback.DeleteAllFeedback(task.ID); err != nil {
		return nil, fmt.Errorf("delete feedback: %w", err)
	}

	task.Feedback = nil
	task.Touch(uc.clock.Now())
	if err := uc.tasks.Put(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "feedback", fmt.Sprintf("cleared %d feedback item(s)", cleared))
	}
	uc.reports.Regenerate()

	return &ClearFeedbackOutput{Cleared: cleared}, nil
}
