// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"time"
)

// Task represents a unit of trackable work.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created time.Time // Creation time
	Updated time.Time // Refreshed by every mutation

	TaskOutput *Submission // Full payload of the latest phase submission

	ID                  string   // Globally unique id; hierarchy encoded via IDSeparator
	Title               string   // Title (required)
	Content             string   // Free-text body
	Parent              string   // Containing task id ("" = root)
	DependencyReason    string   // Required iff Dependencies is non-empty
	Prerequisites       string   // What must be true before work starts
	BlockReason         string   // Reason recorded by the block action
	SkipReason          string   // Reason recorded by the skip action
	Output              string   // One-line summary of the latest submission
	Instructions        string   // Work instructions persisted by the start action
	Status              Status   // Current status
	PreBlockStatus      Status   // Status to restore on unblock ("" when not blocked)
	Dependencies        []string // Task ids that must reach a terminal status first
	CompletionCriteria  []string
	Deliverables        []string // Ordered list
	ParallelizableUnits []string // Ids that may run concurrently
	References          []string // Ids of external documents
	Feedback            []string // Ordered feedback ids attached to this task

	IsParallelizable bool
}

// IsRoot returns true if this is a root task (no parent).
func (t *Task) IsRoot() bool {
	return t.Parent == ""
}

// IsPhaseTask returns true if the task is one of the auto-created phase
// sub-tasks.
func (t *Task) IsPhaseTask() bool {
	_, ok := PhaseOf(t.ID)
	return ok
}

// DependsOn returns true if id appears in the task's dependencies.
func (t *Task) DependsOn(id string) bool {
	return slices.Contains(t.Dependencies, id)
}

// Touch refreshes the updated timestamp.
func (t *Task) Touch(now time.Time) {
	t.Updated = now
}

// StripDependencies removes the given ids from the task's dependency list
// and returns true if anything changed. Used after a cascade delete to keep
// survivors consistent.
func (t *Task) StripDependencies(removed map[string]bool) bool {
	kept := t.Dependencies[:0]
	changed := false
	for _, dep := range t.Dependencies {
		if removed[dep] {
			changed = true
			continue
		}
		kept = append(kept, dep)
	}
	if changed {
		t.Dependencies = kept
		if len(t.Dependencies) == 0 {
			t.Dependencies = nil
			t.DependencyReason = ""
		}
	}
	return changed
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Dependencies = slices.Clone(t.Dependencies)
	c.CompletionCriteria = slices.Clone(t.CompletionCriteria)
	c.Deliverables = slices.Clone(t.Deliverables)
	c.ParallelizableUnits = slices.Clone(t.ParallelizableUnits)
	c.References = slices.Clone(t.References)
	c.Feedback = slices.Clone(t.Feedback)
	if t.TaskOutput != nil {
		out := *t.TaskOutput
		out.Blockers = slices.Clone(t.TaskOutput.Blockers)
		out.Risks = slices.Clone(t.TaskOutput.Risks)
		out.ReferencesUsed = slices.Clone(t.TaskOutput.ReferencesUsed)
		out.Sources = slices.Clone(t.TaskOutput.Sources)
		out.Changes = slices.Clone(t.TaskOutput.Changes)
		out.FeedbackAddressed = slices.Clone(t.TaskOutput.FeedbackAddressed)
		c.TaskOutput = &out
	}
	return &c
}
