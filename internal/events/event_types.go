package events

import "github.com/spec-kit/sla-engine/internal/domain"

// EventType identifies evaluation lifecycle events.
type EventType string

const (
	EventIssueEvaluated EventType = "issue.evaluated"
	EventSlaViolated    EventType = "sla.violated"
	EventBatchCompleted EventType = "batch.completed"
)

// Event is a published evaluation event.
type Event struct {
	Type    EventType
	IssueID string
	Payload any
}

// IssueEvaluatedPayload accompanies EventIssueEvaluated and EventSlaViolated.
type IssueEvaluatedPayload struct {
	Priority                domain.Priority
	ResolutionBusinessHours float64
	ExpectedHours           float64
	Met                     bool
}

// BatchCompletedPayload accompanies EventBatchCompleted.
type BatchCompletedPayload struct {
	BatchID   string
	Evaluated int
	Failed    int
}
