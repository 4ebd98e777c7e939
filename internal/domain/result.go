package domain

import "time"

// SlaResult is the compliance verdict for one evaluated issue. It is derived
// data and never mutated after creation.
type SlaResult struct {
	ID                      string
	IssueID                 string
	ResolutionBusinessHours float64
	ExpectedHours           float64
	Met                     bool
	EvaluatedAt             time.Time
}
