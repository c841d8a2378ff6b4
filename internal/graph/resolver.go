// Package graph computes task readiness, blocked status, and cascade sets
// over the dependency relation. All functions are pure: they operate on a
// snapshot of tasks and never touch storage.
package graph

import (
	"slices"

	"github.com/taskgate/taskgate/internal/domain"
)

// Index is a snapshot of tasks keyed by id.
type Index map[string]*domain.Task

// BuildIndex creates an Index from a task listing.
func BuildIndex(tasks []*domain.Task) Index {
	idx := make(Index, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t
	}
	return idx
}

// IsReady reports whether a task can be started: it is pending and every
// dependency has reached a terminal status. Readiness is recomputed on every
// read and never stored, so it cannot go stale.
func IsReady(task *domain.Task, idx Index) bool {
	if task.Status != domain.StatusPending {
		return false
	}
	for _, dep := range task.Dependencies {
		d, ok := idx[dep]
		if !ok || !d.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// BlockedInfo explains why a task shows as blocked in listings.
// Fields are ordered to minimize memory padding.
type BlockedInfo struct {
	WaitingOn []string // Unsatisfied dependency ids (computed, not stored)
	Explicit  bool     // True when status is the stored blocked value
}

// ComputeBlocked returns, for every task that is not ready to proceed, the
// reason. The computed not-ready notion and the stored blocked status are
// deliberately kept distinct; both are exposed here.
func ComputeBlocked(tasks []*domain.Task) map[string]BlockedInfo {
	idx := BuildIndex(tasks)
	blocked := make(map[string]BlockedInfo)
	for _, t := range tasks {
		if t.Status == domain.StatusBlocked {
			blocked[t.ID] = BlockedInfo{Explicit: true, WaitingOn: waitingOn(t, idx)}
			continue
		}
		if t.Status != domain.StatusPending {
			continue
		}
		if waiting := waitingOn(t, idx); len(waiting) > 0 {
			blocked[t.ID] = BlockedInfo{WaitingOn: waiting}
		}
	}
	return blocked
}

func waitingOn(t *domain.Task, idx Index) []string {
	var waiting []string
	for _, dep := range t.Dependencies {
		d, ok := idx[dep]
		if !ok || !d.Status.IsTerminal() {
			waiting = append(waiting, dep)
		}
	}
	return waiting
}

// ReadyTasks returns every task that is ready to start, ordered by id.
func ReadyTasks(tasks []*domain.Task) []*domain.Task {
	idx := BuildIndex(tasks)
	var ready []*domain.Task
	for _, t := range tasks {
		if IsReady(t, idx) {
			ready = append(ready, t)
		}
	}
	slices.SortFunc(ready, func(a, b *domain.Task) int {
		return compareID(a.ID, b.ID)
	})
	return ready
}

// MissingDependencies returns the declared dependency ids that do not exist
// in the index, ordered as declared. Distinct from cycle detection so the
// caller gets a precise error.
func MissingDependencies(deps []string, idx Index) []string {
	var missing []string
	for _, dep := range deps {
		if _, ok := idx[dep]; !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}

// WouldCreateCycle reports whether adding the given dependencies to id would
// close a cycle in the dependency relation restricted to non-terminal tasks.
// Performed by reachability search from each declared dependency back to id.
func WouldCreateCycle(id string, deps []string, idx Index) bool {
	for _, dep := range deps {
		if dep == id {
			return true
		}
		if reaches(dep, id, idx, make(map[string]bool)) {
			return true
		}
	}
	return false
}

// reaches walks the dependency edges from "from" looking for "target".
func reaches(from, target string, idx Index, seen map[string]bool) bool {
	if seen[from] {
		return false
	}
	seen[from] = true
	t, ok := idx[from]
	if !ok || t.Status.IsTerminal() {
		return false
	}
	for _, dep := range t.Dependencies {
		if dep == target {
			return true
		}
		if reaches(dep, target, idx, seen) {
			return true
		}
	}
	return false
}

// TransitiveDependents returns every non-terminal task that directly or
// transitively depends on id, ordered by id. Used to compute the cascade
// set for force deletion.
func TransitiveDependents(id string, tasks []*domain.Task) []string {
	dependents := make(map[string][]string) // dep id -> ids depending on it
	idx := BuildIndex(tasks)
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	seen := make(map[string]bool)
	queue := []string{id}
	var result []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, depID := range dependents[cur] {
			if seen[depID] {
				continue
			}
			seen[depID] = true
			if t, ok := idx[depID]; ok && t.Status.IsTerminal() {
				continue
			}
			result = append(result, depID)
			queue = append(queue, depID)
		}
	}
	slices.SortFunc(result, compareID)
	return result
}

// Descendants returns every task whose id lives below id in the hierarchy,
// ordered by id. The id prefix is the single source of truth for ancestry.
func Descendants(id string, tasks []*domain.Task) []string {
	var result []string
	for _, t := range tasks {
		if domain.IsDescendant(t.ID, id) {
			result = append(result, t.ID)
		}
	}
	slices.SortFunc(result, compareID)
	return result
}

// CascadeSet returns the full id set a force delete of id will remove: the
// task itself, its transitive dependents, and every descendant sub-task of
// any of those, deduplicated and ordered.
func CascadeSet(id string, tasks []*domain.Task) []string {
	roots := append([]string{id}, TransitiveDependents(id, tasks)...)
	set := make(map[string]bool, len(roots))
	for _, root := range roots {
		set[root] = true
		// Descendant-of-descendant is covered by the prefix relation, so one
		// pass per root is enough.
		for _, desc := range Descendants(root, tasks) {
			set[desc] = true
		}
	}
	result := make([]string, 0, len(set))
	for tid := range set {
		result = append(result, tid)
	}
	slices.SortFunc(result, compareID)
	return result
}

// DirectDependents returns the ids of tasks that list id as a dependency,
// regardless of status. Used for the no-force delete rejection.
func DirectDependents(id string, tasks []*domain.Task) []string {
	var result []string
	for _, t := range tasks {
		if t.DependsOn(id) {
			result = append(result, t.ID)
		}
	}
	slices.SortFunc(result, compareID)
	return result
}

// compareID orders ids so parents sort before their phase sub-tasks.
func compareID(a, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
