package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

// IDSeparator is the reserved separator that encodes hierarchy in task ids.
// "auth__plan" is the plan phase of task "auth"; "a__b__c" is a grandchild.
const IDSeparator = "__"

// idPattern matches a single id segment: lowercase alphanumerics and dashes.
var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateID reports whether the id is well-formed: non-empty segments
// joined by the reserved separator.
func ValidateID(id string) bool {
	if id == "" {
		return false
	}
	for _, seg := range Segments(id) {
		if !idPattern.MatchString(seg) {
			return false
		}
	}
	return true
}

// Segments splits an id on the reserved separator.
func Segments(id string) []string {
	return strings.Split(id, IDSeparator)
}

// JoinID joins id segments with the reserved separator.
func JoinID(segments ...string) string {
	return strings.Join(segments, IDSeparator)
}

// ParentOf returns the id one level up the hierarchy, or "" for a root id.
func ParentOf(id string) string {
	segs := Segments(id)
	if len(segs) < 2 {
		return ""
	}
	return JoinID(segs[:len(segs)-1]...)
}

// IsDescendant reports whether id lives below ancestor in the id hierarchy.
// This prefix check is the single source of truth for ancestry; no separate
// parent-pointer structure is consulted.
func IsDescendant(id, ancestor string) bool {
	if id == ancestor {
		return false
	}
	return strings.HasPrefix(id, ancestor+IDSeparator)
}

// TaskRecordPath returns the record file path for a task.
func TaskRecordPath(tasksDir, id string) string {
	return filepath.Join(tasksDir, id+".md")
}

// FeedbackDirPath returns the directory grouping a task's feedback records.
func FeedbackDirPath(tasksDir, taskID string) string {
	return filepath.Join(tasksDir, taskID+".feedback")
}

// FeedbackRecordPath returns the record file path for a feedback item.
func FeedbackRecordPath(tasksDir, taskID, feedbackID string) string {
	return filepath.Join(FeedbackDirPath(tasksDir, taskID), feedbackID+".md")
}

// ApprovalRecordPath returns the record file path for a pending approval.
func ApprovalRecordPath(approvalsDir, requestID string) string {
	return filepath.Join(approvalsDir, requestID+".json")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "taskgate.log")
}

// TaskLogPath returns the path to a per-task log file.
func TaskLogPath(dataDir, taskID string) string {
	return filepath.Join(dataDir, "logs", "task-"+taskID+".log")
}
