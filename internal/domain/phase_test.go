package domain

import (
	"slices"
	"testing"
)

func completeSubmission(p Phase) *Submission {
	s := &Submission{
		What:             "swapped the session cache",
		Why:              "stale reads under load",
		How:              "replaced map with LRU",
		Blockers:         []string{},
		Risks:            []string{},
		ReferencesReason: "no external docs needed",
		Guidance:         "self-review.md",
	}
	switch p {
	case PhasePlan:
		s.Findings = "three call sites touch the cache"
		s.Sources = []string{"internal/cache/cache.go"}
	case PhaseDo:
		s.Changes = []Change{{File: "internal/cache/cache.go", Lines: "10-42", Description: "swap map for LRU"}}
		s.DesignDecisions = "kept the old interface"
	case PhaseCheck:
		s.TestTarget = "./internal/cache"
		s.TestResults = "12 passed"
		s.Coverage = "87%"
	case PhaseAct:
		s.Changes = []Change{{File: "internal/cache/cache.go", Lines: "55", Description: "address review note"}}
		s.FeedbackAddressed = []string{}
	}
	return s
}

func TestSubmission_MissingFields_complete(t *testing.T) {
	for _, p := range Phases() {
		if missing := completeSubmission(p).MissingFields(p); len(missing) != 0 {
			t.Errorf("phase %s: unexpected missing fields %v", p, missing)
		}
	}
}

func TestSubmission_MissingFields_empty(t *testing.T) {
	missing := (&Submission{}).MissingFields(PhasePlan)
	for _, want := range []string{"output_what", "output_why", "output_how", "blockers", "risks", "references_reason", "guidance", "findings", "sources"} {
		if !slices.Contains(missing, want) {
			t.Errorf("missing fields %v should contain %q", missing, want)
		}
	}
}

func TestSubmission_MissingFields_phaseSpecific(t *testing.T) {
	tests := []struct {
		phase Phase
		strip func(*Submission)
		want  string
	}{
		{PhasePlan, func(s *Submission) { s.Findings = "" }, "findings"},
		{PhasePlan, func(s *Submission) { s.Sources = nil }, "sources"},
		{PhaseDo, func(s *Submission) { s.Changes = nil }, "changes"},
		{PhaseDo, func(s *Submission) { s.DesignDecisions = "" }, "design_decisions"},
		{PhaseCheck, func(s *Submission) { s.TestTarget = "" }, "test_target"},
		{PhaseCheck, func(s *Submission) { s.TestResults = "" }, "test_results"},
		{PhaseCheck, func(s *Submission) { s.Coverage = "" }, "coverage"},
		{PhaseAct, func(s *Submission) { s.Changes = nil }, "changes"},
		{PhaseAct, func(s *Submission) { s.FeedbackAddressed = nil }, "feedback_addressed"},
	}
	for _, tt := range tests {
		s := completeSubmission(tt.phase)
		tt.strip(s)
		missing := s.MissingFields(tt.phase)
		if !slices.Contains(missing, tt.want) {
			t.Errorf("phase %s: missing fields %v should contain %q", tt.phase, missing, tt.want)
		}
	}
}

func TestSubmission_emptyListsArePresent(t *testing.T) {
	// Blockers and risks may be empty but must be present.
	s := completeSubmission(PhaseCheck)
	s.Blockers = []string{}
	s.Risks = []string{}
	if missing := s.MissingFields(PhaseCheck); len(missing) != 0 {
		t.Errorf("empty blockers/risks should satisfy requirements, missing %v", missing)
	}
	s.Blockers = nil
	missing := s.MissingFields(PhaseCheck)
	if !slices.Contains(missing, "blockers") {
		t.Errorf("nil blockers should be reported missing, got %v", missing)
	}
}

func TestSubmission_WrongPhaseFields(t *testing.T) {
	// A check payload submitted against a do task names the stray fields.
	s := completeSubmission(PhaseCheck)
	wrong := s.WrongPhaseFields(PhaseDo)
	if !slices.Contains(wrong, "test_target") {
		t.Errorf("wrong fields %v should contain test_target", wrong)
	}
	// References used is nullable everywhere and never flagged.
	s2 := completeSubmission(PhaseDo)
	s2.ReferencesUsed = []string{"doc-1"}
	if wrong := s2.WrongPhaseFields(PhaseDo); len(wrong) != 0 {
		t.Errorf("unexpected wrong-phase fields %v", wrong)
	}
}

func TestExampleSubmission_allPhases(t *testing.T) {
	for _, p := range Phases() {
		if ExampleSubmission(p) == "" {
			t.Errorf("phase %s: empty example", p)
		}
	}
}
