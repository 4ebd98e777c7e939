package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/api/dto"
	"github.com/spec-kit/sla-engine/internal/domain"
	"github.com/spec-kit/sla-engine/internal/report"
	"github.com/spec-kit/sla-engine/internal/repository"
	"github.com/spec-kit/sla-engine/internal/sla"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

const maxBatchSize = 50000

// EvaluationsHandler runs SLA evaluation over submitted issue batches.
type EvaluationsHandler struct {
	runner  *sla.BatchRunner
	results repository.ResultRepository
	logger  *zap.Logger
}

// NewEvaluationsHandler returns a new handler instance. The repository may be
// nil when Postgres is not configured; results are then only returned, not
// stored.
func NewEvaluationsHandler(runner *sla.BatchRunner, results repository.ResultRepository, logger *zap.Logger) *EvaluationsHandler {
	return &EvaluationsHandler{runner: runner, results: results, logger: logger}
}

// EvaluateBatch evaluates a batch of resolved issues. Results come back in
// input order; records that cannot be evaluated are reported in failures
// without aborting the rest.
func (h *EvaluationsHandler) EvaluateBatch(c *fiber.Ctx) error {
	var req dto.EvaluateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if len(req.Issues) == 0 {
		return apperrors.NewValidationError("issues must not be empty", nil)
	}
	if len(req.Issues) > maxBatchSize {
		return apperrors.NewValidationError("batch too large", map[string]any{
			"max": maxBatchSize, "got": len(req.Issues),
		})
	}

	issues := make([]domain.IssueRecord, 0, len(req.Issues))
	for i, item := range req.Issues {
		if item.IssueID == "" {
			return apperrors.NewValidationError("issue_id is required", map[string]any{"index": i})
		}
		if item.CreatedAt.IsZero() {
			return apperrors.NewValidationError("created_at is required", map[string]any{
				"index": i, "issue_id": item.IssueID,
			})
		}
		issues = append(issues, item.ToDomain())
	}

	batch := h.runner.Run(c.UserContext(), issues)

	if h.results != nil {
		if stored, err := h.results.InsertBatch(c.UserContext(), batch.Results); err != nil {
			// Persistence is best-effort; the caller still gets the results.
			h.logger.Error("failed to store sla results",
				zap.String("batch_id", batch.BatchID),
				zap.Int("stored", stored),
				zap.Error(err))
		}
	}

	return c.JSON(buildBatchResponse(issues, batch))
}

func buildBatchResponse(issues []domain.IssueRecord, batch sla.BatchResult) dto.EvaluateBatchResponse {
	resp := dto.EvaluateBatchResponse{
		BatchID:  batch.BatchID,
		Results:  make([]*dto.SlaResultResponse, len(batch.Results)),
		Failures: make([]dto.EvaluationFailureResponse, 0, len(batch.Failures)),
	}
	for i, result := range batch.Results {
		resp.Results[i] = dto.NewSlaResultResponse(result)
	}
	for _, failure := range batch.Failures {
		resp.Failures = append(resp.Failures, dto.EvaluationFailureResponse{
			Index:   failure.Index,
			IssueID: failure.IssueID,
			Code:    failure.Code,
			Message: failure.Err.Error(),
		})
	}

	summary := report.Build(issues, batch.Results)
	resp.Report = dto.ReportResponse{
		TotalEvaluated: summary.TotalEvaluated,
		MetCount:       summary.MetCount,
		ComplianceRate: summary.ComplianceRate,
		ByAssignee:     toAggregateResponses(summary.ByAssignee),
		ByIssueType:    toAggregateResponses(summary.ByIssueType),
	}
	return resp
}

func toAggregateResponses(rows []report.Aggregate) []dto.AggregateResponse {
	out := make([]dto.AggregateResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.AggregateResponse{
			Key:         row.Key,
			IssueCount:  row.IssueCount,
			AvgSlaHours: row.AvgSlaHours,
		})
	}
	return out
}
