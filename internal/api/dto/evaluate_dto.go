package dto

import (
	"time"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// IssueRecordRequest is one cleaned issue submitted for evaluation.
type IssueRecordRequest struct {
	IssueID      string             `json:"issue_id"`
	IssueType    string             `json:"issue_type"`
	AssigneeName string             `json:"assignee_name"`
	Priority     domain.Priority    `json:"priority"`
	Status       domain.IssueStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	ResolvedAt   *time.Time         `json:"resolved_at"`
}

// EvaluateBatchRequest payload.
type EvaluateBatchRequest struct {
	Issues []IssueRecordRequest `json:"issues"`
}

// SlaResultResponse is the compliance verdict for one issue.
type SlaResultResponse struct {
	ID                      string    `json:"id"`
	IssueID                 string    `json:"issue_id"`
	ResolutionBusinessHours float64   `json:"resolution_business_hours"`
	ExpectedHours           float64   `json:"expected_hours"`
	IsMet                   bool      `json:"is_met"`
	EvaluatedAt             time.Time `json:"evaluated_at"`
}

// EvaluationFailureResponse reports one record that could not be evaluated.
type EvaluationFailureResponse struct {
	Index   int    `json:"index"`
	IssueID string `json:"issue_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AggregateResponse is one group-by report row.
type AggregateResponse struct {
	Key         string  `json:"key"`
	IssueCount  int     `json:"issue_count"`
	AvgSlaHours float64 `json:"sla_avg_hours"`
}

// ReportResponse summarizes a batch for downstream reporting.
type ReportResponse struct {
	TotalEvaluated int                 `json:"total_evaluated"`
	MetCount       int                 `json:"met_count"`
	ComplianceRate float64             `json:"compliance_rate_pct"`
	ByAssignee     []AggregateResponse `json:"by_assignee"`
	ByIssueType    []AggregateResponse `json:"by_issue_type"`
}

// EvaluateBatchResponse carries results in input order plus per-record
// failures and the aggregated report.
type EvaluateBatchResponse struct {
	BatchID  string                      `json:"batch_id"`
	Results  []*SlaResultResponse        `json:"results"`
	Failures []EvaluationFailureResponse `json:"failures"`
	Report   ReportResponse              `json:"report"`
}

// NewSlaResultResponse maps a domain result.
func NewSlaResultResponse(result *domain.SlaResult) *SlaResultResponse {
	if result == nil {
		return nil
	}
	return &SlaResultResponse{
		ID:                      result.ID,
		IssueID:                 result.IssueID,
		ResolutionBusinessHours: result.ResolutionBusinessHours,
		ExpectedHours:           result.ExpectedHours,
		IsMet:                   result.Met,
		EvaluatedAt:             result.EvaluatedAt,
	}
}

// ToDomain converts the request record to the domain model.
func (r IssueRecordRequest) ToDomain() domain.IssueRecord {
	return domain.IssueRecord{
		IssueID:      r.IssueID,
		IssueType:    r.IssueType,
		AssigneeName: r.AssigneeName,
		Priority:     r.Priority,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		ResolvedAt:   r.ResolvedAt,
	}
}
