package sla

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sla-engine/internal/calendar"
	"github.com/spec-kit/sla-engine/internal/domain"
	"github.com/spec-kit/sla-engine/internal/events"
	"github.com/spec-kit/sla-engine/internal/observability"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// HolidaySource resolves holiday sets; implemented by holiday.Provider.
type HolidaySource interface {
	Holidays(ctx context.Context, countryCode string, years []int) (*domain.HolidaySet, error)
}

// Evaluator computes SLA compliance for resolved issues. Evaluation is a pure
// function of the issue plus the read-only holiday set, so independent issues
// may be evaluated concurrently.
type Evaluator struct {
	holidays   HolidaySource
	policy     *Policy
	country    string
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// EvaluatorDependencies bundles collaborators for the evaluator.
type EvaluatorDependencies struct {
	Holidays    HolidaySource
	Policy      *Policy
	CountryCode string
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// NewEvaluator constructs the evaluator.
func NewEvaluator(deps EvaluatorDependencies) *Evaluator {
	return &Evaluator{
		holidays:   deps.Holidays,
		policy:     deps.Policy,
		country:    deps.CountryCode,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// Evaluate produces the SlaResult for one issue. The issue must carry a
// resolution timestamp not earlier than its creation timestamp; callers filter
// unresolved issues out before invoking this.
func (e *Evaluator) Evaluate(ctx context.Context, issue domain.IssueRecord) (*domain.SlaResult, error) {
	if issue.ResolvedAt == nil {
		return nil, apperrors.NewUnresolvedIssue(issue.IssueID)
	}
	created := issue.CreatedAt.UTC()
	resolved := issue.ResolvedAt.UTC()
	if resolved.Before(created) {
		return nil, apperrors.NewInvalidRange("resolved before created", map[string]any{
			"issue_id":    issue.IssueID,
			"created_at":  created.Format(time.RFC3339),
			"resolved_at": resolved.Format(time.RFC3339),
		})
	}

	expected, err := e.policy.ExpectedHours(issue.Priority)
	if err != nil {
		return nil, err
	}

	holidaySet, err := e.holidays.Holidays(ctx, e.country, yearsSpanned(created, resolved))
	if err != nil {
		return nil, err
	}

	hours, err := calendar.BusinessHours(created, resolved, holidaySet)
	if err != nil {
		return nil, err
	}

	result := &domain.SlaResult{
		ID:                      uuid.NewString(),
		IssueID:                 issue.IssueID,
		ResolutionBusinessHours: hours,
		ExpectedHours:           expected,
		Met:                     hours <= expected,
		EvaluatedAt:             time.Now().UTC(),
	}

	e.metrics.RecordEvaluation(result.Met)
	e.publishResult(ctx, issue, result)
	return result, nil
}

func (e *Evaluator) publishResult(ctx context.Context, issue domain.IssueRecord, result *domain.SlaResult) {
	if e.dispatcher == nil {
		return
	}
	payload := events.IssueEvaluatedPayload{
		Priority:                issue.Priority,
		ResolutionBusinessHours: result.ResolutionBusinessHours,
		ExpectedHours:           result.ExpectedHours,
		Met:                     result.Met,
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		Type:    events.EventIssueEvaluated,
		IssueID: issue.IssueID,
		Payload: payload,
	})
	if !result.Met {
		_ = e.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventSlaViolated,
			IssueID: issue.IssueID,
			Payload: payload,
		})
	}
}

// yearsSpanned lists every calendar year touched by [start, end], inclusive.
func yearsSpanned(start, end time.Time) []int {
	years := make([]int, 0, end.Year()-start.Year()+1)
	for year := start.Year(); year <= end.Year(); year++ {
		years = append(years, year)
	}
	return years
}
