package domain

import "testing"

func TestValidateID(t *testing.T) {
	tests := []struct {
		id     string
		expect bool
	}{
		{"auth", true},
		{"auth__plan", true},
		{"a__b__c", true},
		{"refactor-cache", true},
		{"task9", true},
		{"", false},
		{"__", false},
		{"auth__", false},
		{"__plan", false},
		{"Auth", false},
		{"auth plan", false},
		{"-auth", false},
	}
	for _, tt := range tests {
		if got := ValidateID(tt.id); got != tt.expect {
			t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.expect)
		}
	}
}

func TestParentOf(t *testing.T) {
	tests := []struct {
		id     string
		parent string
	}{
		{"auth", ""},
		{"auth__plan", "auth"},
		{"a__b__c", "a__b"},
	}
	for _, tt := range tests {
		if got := ParentOf(tt.id); got != tt.parent {
			t.Errorf("ParentOf(%q) = %q, want %q", tt.id, got, tt.parent)
		}
	}
}

func TestIsDescendant(t *testing.T) {
	tests := []struct {
		id       string
		ancestor string
		expect   bool
	}{
		{"auth__plan", "auth", true},
		{"auth__plan__do", "auth", true},
		{"auth", "auth", false},
		{"auth2", "auth", false},       // shared prefix, different segment
		{"authentication", "auth", false},
		{"auth", "auth__plan", false},
	}
	for _, tt := range tests {
		if got := IsDescendant(tt.id, tt.ancestor); got != tt.expect {
			t.Errorf("IsDescendant(%q, %q) = %v, want %v", tt.id, tt.ancestor, got, tt.expect)
		}
	}
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		id    string
		phase Phase
		ok    bool
	}{
		{"auth__plan", PhasePlan, true},
		{"auth__do", PhaseDo, true},
		{"auth__check", PhaseCheck, true},
		{"auth__act", PhaseAct, true},
		{"auth", "", false},
		{"auth__other", "", false},
		{"plan", "", false}, // root id that happens to match a phase name
	}
	for _, tt := range tests {
		phase, ok := PhaseOf(tt.id)
		if phase != tt.phase || ok != tt.ok {
			t.Errorf("PhaseOf(%q) = (%q, %v), want (%q, %v)", tt.id, phase, ok, tt.phase, tt.ok)
		}
	}
}

func TestPhaseID_roundTrip(t *testing.T) {
	for _, p := range Phases() {
		id := PhaseID("auth", p)
		got, ok := PhaseOf(id)
		if !ok || got != p {
			t.Errorf("PhaseOf(PhaseID(auth, %s)) = (%s, %v)", p, got, ok)
		}
		if ParentOf(id) != "auth" {
			t.Errorf("ParentOf(%q) = %q, want auth", id, ParentOf(id))
		}
	}
}

func TestApprovalRequestID(t *testing.T) {
	if got := ApprovalRequestID(OpComplete, "auth"); got != "complete-auth" {
		t.Errorf("ApprovalRequestID = %q", got)
	}
	if got := ApprovalRequestID(OpDelete, "a", "b"); got != "delete-a-b" {
		t.Errorf("ApprovalRequestID = %q", got)
	}
}
