package domain

import "time"

// IssueStatus enumerates lifecycle states for tracked issues.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusDone       IssueStatus = "Done"
	IssueStatusResolved   IssueStatus = "Resolved"
	IssueStatusCancelled  IssueStatus = "Cancelled"
)

// IsResolved reports whether the status counts as a completed resolution.
func (s IssueStatus) IsResolved() bool {
	return s == IssueStatusDone || s == IssueStatusResolved
}

// Priority enumerates SLA urgency tiers.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// IssueRecord is a cleaned issue as produced by the upstream validation stage.
// CreatedAt and ResolvedAt are UTC; a nil ResolvedAt means unresolved.
type IssueRecord struct {
	IssueID      string
	IssueType    string
	AssigneeName string
	Priority     Priority
	Status       IssueStatus
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}
