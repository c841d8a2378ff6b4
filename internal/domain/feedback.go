package domain

import "time"

// FeedbackStatus represents the lifecycle state of a feedback item.
type FeedbackStatus string

const (
	FeedbackDraft     FeedbackStatus = "draft"
	FeedbackConfirmed FeedbackStatus = "confirmed"
)

// FeedbackDecision records whether a reviewer comment was adopted.
type FeedbackDecision string

const (
	DecisionAdopted  FeedbackDecision = "adopted"
	DecisionRejected FeedbackDecision = "rejected"
)

// Feedback is a reviewer note attached to exactly one task, progressing
// draft → interpreted → confirmed.
// Fields are ordered to minimize memory padding.
type Feedback struct {
	Timestamp      time.Time
	ID             string           // Unique within the task
	TaskID         string           // Owning task
	Original       string           // Raw reviewer comment
	Interpretation string           // Empty until recorded; settable only while draft
	AddressedBy    string           // Id of the task version that resolved it ("" = unaddressed)
	Decision       FeedbackDecision // Defaults to rejected when unrecorded
	Status         FeedbackStatus   // Defaults to draft when unrecorded
}

// IsConfirmed returns true once the feedback has been confirmed.
// A confirmed feedback is immutable except for AddressedBy.
func (f *Feedback) IsConfirmed() bool {
	return f.Status == FeedbackConfirmed
}

// IsAddressed returns true once a task version has resolved the feedback.
func (f *Feedback) IsAddressed() bool {
	return f.AddressedBy != ""
}
