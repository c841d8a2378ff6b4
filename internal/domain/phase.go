package domain

import "strings"

// Phase is one quarter of the fixed review cycle auto-created when a task
// starts: plan → do → check → act.
type Phase string

const (
	PhasePlan  Phase = "plan"
	PhaseDo    Phase = "do"
	PhaseCheck Phase = "check"
	PhaseAct   Phase = "act"
)

// Phases returns the four phases in execution order.
func Phases() []Phase {
	return []Phase{PhasePlan, PhaseDo, PhaseCheck, PhaseAct}
}

// IsValid returns true if the phase is one of the four known phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhasePlan, PhaseDo, PhaseCheck, PhaseAct:
		return true
	default:
		return false
	}
}

// SubmitAction returns the name of the submit action for this phase.
func (p Phase) SubmitAction() string {
	return "submit_" + string(p)
}

// PhaseID returns the sub-task id for a phase of the given parent task.
func PhaseID(taskID string, p Phase) string {
	return taskID + IDSeparator + string(p)
}

// PhaseOf returns the phase encoded in the id suffix, if any.
// "auth__do" → (PhaseDo, true); "auth" → ("", false).
func PhaseOf(id string) (Phase, bool) {
	segs := Segments(id)
	if len(segs) < 2 {
		return "", false
	}
	p := Phase(segs[len(segs)-1])
	if !p.IsValid() {
		return "", false
	}
	return p, true
}

// Change describes one edit recorded in a do/act submission.
type Change struct {
	File        string `yaml:"file"`
	Lines       string `yaml:"lines,omitempty"`
	Description string `yaml:"description"`
}

// Submission is the payload carried by a submit action. The common fields
// are required for every phase; the phase-specific fields are required only
// for the matching phase suffix and must be absent otherwise.
type Submission struct {
	// Common to all phases.
	What             string   `yaml:"what"`
	Why              string   `yaml:"why"`
	How              string   `yaml:"how"`
	Blockers         []string `yaml:"blockers"`
	Risks            []string `yaml:"risks"`
	ReferencesUsed   []string `yaml:"references_used,omitempty"` // nil = none consulted
	ReferencesReason string   `yaml:"references_reason"`
	Guidance         string   `yaml:"guidance"` // which self-review guidance was consulted

	// plan
	Findings string   `yaml:"findings,omitempty"`
	Sources  []string `yaml:"sources,omitempty"`

	// do
	Changes         []Change `yaml:"changes,omitempty"` // also act
	DesignDecisions string   `yaml:"design_decisions,omitempty"`

	// check
	TestTarget  string `yaml:"test_target,omitempty"`
	TestResults string `yaml:"test_results,omitempty"`
	Coverage    string `yaml:"coverage,omitempty"`

	// act
	FeedbackAddressed []string `yaml:"feedback_addressed,omitempty"`
}

// MissingFields returns the names of required fields absent from the
// submission for the given phase, in a stable order. Blockers and risks may
// be empty lists but must be present (non-nil); references_used may be nil.
func (s *Submission) MissingFields(p Phase) []string {
	var missing []string
	add := func(name string, absent bool) {
		if absent {
			missing = append(missing, name)
		}
	}

	add("output_what", s.What == "")
	add("output_why", s.Why == "")
	add("output_how", s.How == "")
	add("blockers", s.Blockers == nil)
	add("risks", s.Risks == nil)
	add("references_reason", s.ReferencesReason == "")
	add("guidance", s.Guidance == "")

	switch p {
	case PhasePlan:
		add("findings", s.Findings == "")
		add("sources", len(s.Sources) == 0)
	case PhaseDo:
		add("changes", len(s.Changes) == 0)
		add("design_decisions", s.DesignDecisions == "")
	case PhaseCheck:
		add("test_target", s.TestTarget == "")
		add("test_results", s.TestResults == "")
		add("coverage", s.Coverage == "")
	case PhaseAct:
		add("changes", len(s.Changes) == 0)
		add("feedback_addressed", s.FeedbackAddressed == nil)
	}

	return missing
}

// WrongPhaseFields returns the phase-specific fields present in the
// submission that belong to a different phase. A non-empty result means the
// caller used the wrong submit variant for the task's id suffix.
func (s *Submission) WrongPhaseFields(p Phase) []string {
	var wrong []string
	if p != PhasePlan && (s.Findings != "" || len(s.Sources) > 0) {
		wrong = append(wrong, "findings", "sources")
	}
	if p != PhaseDo && s.DesignDecisions != "" {
		wrong = append(wrong, "design_decisions")
	}
	if p != PhaseCheck && (s.TestTarget != "" || s.TestResults != "" || s.Coverage != "") {
		wrong = append(wrong, "test_target", "test_results", "coverage")
	}
	if p != PhaseAct && s.FeedbackAddressed != nil {
		wrong = append(wrong, "feedback_addressed")
	}
	if p != PhaseDo && p != PhaseAct && len(s.Changes) > 0 {
		wrong = append(wrong, "changes")
	}
	return wrong
}

// Summary returns a one-line rendering of the submission for listings.
func (s *Submission) Summary() string {
	return strings.TrimSpace(s.What)
}

// ExampleSubmission returns a well-formed example payload for the phase's
// submit action, used in validation error messages so callers can correct
// themselves without consulting documentation.
func ExampleSubmission(p Phase) string {
	common := `what: replaced the session cache
why: stale reads under load
how: swapped map for LRU
blockers: []
risks: []
references_reason: no external docs needed
guidance: self-review.md`
	switch p {
	case PhasePlan:
		return common + `
findings: three call sites touch the cache
sources: [internal/cache/cache.go]`
	case PhaseDo:
		return common + `
changes:
  - {file: internal/cache/cache.go, lines: 10-42, description: swap map for LRU}
design_decisions: kept the old interface`
	case PhaseCheck:
		return common + `
test_target: ./internal/cache
test_results: 12 passed
coverage: 87%`
	case PhaseAct:
		return common + `
changes:
  - {file: internal/cache/cache.go, lines: "55", description: address review note}
feedback_addressed: [fb-01]`
	default:
		return common
	}
}
