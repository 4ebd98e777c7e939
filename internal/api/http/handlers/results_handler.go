package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-engine/internal/api/dto"
	"github.com/spec-kit/sla-engine/internal/repository"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// ResultsHandler serves persisted SLA results.
type ResultsHandler struct {
	results repository.ResultRepository
}

// NewResultsHandler returns a new handler instance.
func NewResultsHandler(results repository.ResultRepository) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// ListRecent returns the most recently evaluated results.
func (h *ResultsHandler) ListRecent(c *fiber.Ctx) error {
	if h.results == nil {
		return apperrors.NewNotFound("result store", map[string]any{"reason": "postgres not configured"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	results, err := h.results.ListRecent(c.UserContext(), limit)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]*dto.SlaResultResponse, 0, len(results))
	for i := range results {
		out = append(out, dto.NewSlaResultResponse(&results[i]))
	}
	return c.JSON(fiber.Map{"results": out})
}

// ListByIssue returns every stored evaluation for one issue.
func (h *ResultsHandler) ListByIssue(c *fiber.Ctx) error {
	if h.results == nil {
		return apperrors.NewNotFound("result store", map[string]any{"reason": "postgres not configured"})
	}

	issueID := c.Params("issue_id")
	if issueID == "" {
		return apperrors.NewValidationError("issue_id is required", nil)
	}

	results, err := h.results.ListByIssue(c.UserContext(), issueID)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]*dto.SlaResultResponse, 0, len(results))
	for i := range results {
		out = append(out, dto.NewSlaResultResponse(&results[i]))
	}
	return c.JSON(fiber.Map{"issue_id": issueID, "results": out})
}
