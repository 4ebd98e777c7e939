package sla

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/domain"
	"github.com/spec-kit/sla-engine/internal/events"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// EvaluationFailure records a per-record failure inside a batch.
type EvaluationFailure struct {
	Index   int
	IssueID string
	Code    string
	Err     error
}

// BatchResult carries the outcome of one batch evaluation. Results holds one
// entry per input issue in input order; failed entries are nil and appear in
// Failures instead.
type BatchResult struct {
	BatchID  string
	Results  []*domain.SlaResult
	Failures []EvaluationFailure
}

// Succeeded returns the non-nil results in input order.
func (b BatchResult) Succeeded() []*domain.SlaResult {
	out := make([]*domain.SlaResult, 0, len(b.Results))
	for _, r := range b.Results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// BatchRunner evaluates slices of issues with a bounded worker pool. One bad
// record never aborts the batch; its error is collected alongside the
// successes.
type BatchRunner struct {
	evaluator  *Evaluator
	workers    int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBatchRunner constructs the runner. Worker counts below 1 run serially.
func NewBatchRunner(evaluator *Evaluator, workers int, dispatcher events.Dispatcher, logger *zap.Logger) *BatchRunner {
	if workers < 1 {
		workers = 1
	}
	return &BatchRunner{evaluator: evaluator, workers: workers, dispatcher: dispatcher, logger: logger}
}

// Run evaluates every issue and returns results in input order. A holiday
// fetch failure for an uncached year fails every record needing that year but
// still lets the rest of the batch proceed.
func (r *BatchRunner) Run(ctx context.Context, issues []domain.IssueRecord) BatchResult {
	batch := BatchResult{
		BatchID: uuid.NewString(),
		Results: make([]*domain.SlaResult, len(issues)),
	}
	errs := make([]error, len(issues))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				result, err := r.evaluator.Evaluate(ctx, issues[idx])
				if err != nil {
					errs[idx] = err
					continue
				}
				batch.Results[idx] = result
			}
		}()
	}

	for idx := range issues {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for idx, err := range errs {
		if err == nil {
			continue
		}
		code := apperrors.CodeOf(err)
		r.evaluator.metrics.RecordEvaluationFailure(code)
		r.logger.Warn("issue evaluation failed",
			zap.String("issue_id", issues[idx].IssueID),
			zap.String("code", code),
			zap.Error(err))
		batch.Failures = append(batch.Failures, EvaluationFailure{
			Index:   idx,
			IssueID: issues[idx].IssueID,
			Code:    code,
			Err:     err,
		})
	}

	if r.dispatcher != nil {
		_ = r.dispatcher.Publish(ctx, events.Event{
			Type: events.EventBatchCompleted,
			Payload: events.BatchCompletedPayload{
				BatchID:   batch.BatchID,
				Evaluated: len(issues) - len(batch.Failures),
				Failed:    len(batch.Failures),
			},
		})
	}
	return batch
}
