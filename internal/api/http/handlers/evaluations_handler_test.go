package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/api/dto"
	httptransport "github.com/spec-kit/sla-engine/internal/api/http"
	"github.com/spec-kit/sla-engine/internal/api/http/handlers"
	"github.com/spec-kit/sla-engine/internal/domain"
	"github.com/spec-kit/sla-engine/internal/observability"
	"github.com/spec-kit/sla-engine/internal/sla"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// noHolidays serves an empty holiday set for any requested years.
type noHolidays struct{}

func (noHolidays) Holidays(_ context.Context, countryCode string, years []int) (*domain.HolidaySet, error) {
	set := domain.NewHolidaySet(countryCode)
	for _, year := range years {
		set.MarkYear(year)
	}
	return set, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	evaluator := sla.NewEvaluator(sla.EvaluatorDependencies{
		Holidays:    noHolidays{},
		Policy:      sla.DefaultPolicy(),
		CountryCode: "BR",
		Metrics:     observability.NewMetrics(),
	})
	runner := sla.NewBatchRunner(evaluator, 4, nil, zap.NewNop())
	handler := handlers.NewEvaluationsHandler(runner, nil, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Post("/v1/evaluations", handler.EvaluateBatch)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, data
}

func issueRequest(id string, priority domain.Priority, created, resolved string) dto.IssueRecordRequest {
	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		panic(err)
	}
	req := dto.IssueRecordRequest{
		IssueID:      id,
		IssueType:    "Bug",
		AssigneeName: "alice",
		Priority:     priority,
		Status:       domain.IssueStatusDone,
		CreatedAt:    createdAt,
	}
	if resolved != "" {
		resolvedAt, err := time.Parse(time.RFC3339, resolved)
		if err != nil {
			panic(err)
		}
		req.ResolvedAt = &resolvedAt
	}
	return req
}

func TestEvaluateBatchHappyPath(t *testing.T) {
	app := newTestApp(t)

	// Mon 09:00 -> Tue 15:00 is 30 business hours: within the Medium 72h budget.
	resp, body := postJSON(t, app, "/v1/evaluations", dto.EvaluateBatchRequest{
		Issues: []dto.IssueRecordRequest{
			issueRequest("PROJ-1", domain.PriorityMedium, "2026-03-02T09:00:00Z", "2026-03-03T15:00:00Z"),
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.EvaluateBatchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.BatchID)
	require.Len(t, out.Results, 1)
	require.NotNil(t, out.Results[0])
	assert.Equal(t, "PROJ-1", out.Results[0].IssueID)
	assert.Equal(t, 30.0, out.Results[0].ResolutionBusinessHours)
	assert.Equal(t, 72.0, out.Results[0].ExpectedHours)
	assert.True(t, out.Results[0].IsMet)
	assert.Empty(t, out.Failures)

	assert.Equal(t, 1, out.Report.TotalEvaluated)
	assert.Equal(t, 100.0, out.Report.ComplianceRate)
	require.Len(t, out.Report.ByAssignee, 1)
	assert.Equal(t, "alice", out.Report.ByAssignee[0].Key)
	assert.Equal(t, 30.0, out.Report.ByAssignee[0].AvgSlaHours)
}

func TestEvaluateBatchMixedOutcomes(t *testing.T) {
	app := newTestApp(t)

	// High priority resolved after 48 business hours violates the 24h budget;
	// the unresolved record fails without aborting the batch.
	resp, body := postJSON(t, app, "/v1/evaluations", dto.EvaluateBatchRequest{
		Issues: []dto.IssueRecordRequest{
			issueRequest("PROJ-1", domain.PriorityHigh, "2026-03-02T09:00:00Z", "2026-03-04T09:00:00Z"),
			issueRequest("PROJ-2", domain.PriorityHigh, "2026-03-02T09:00:00Z", ""),
			issueRequest("PROJ-3", domain.PriorityLow, "2026-03-02T09:00:00Z", "2026-03-02T10:30:00Z"),
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.EvaluateBatchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Results, 3)

	require.NotNil(t, out.Results[0])
	assert.False(t, out.Results[0].IsMet)
	assert.Nil(t, out.Results[1])
	require.NotNil(t, out.Results[2])
	assert.Equal(t, 1.5, out.Results[2].ResolutionBusinessHours)

	require.Len(t, out.Failures, 1)
	assert.Equal(t, 1, out.Failures[0].Index)
	assert.Equal(t, "PROJ-2", out.Failures[0].IssueID)
	assert.Equal(t, apperrors.CodeUnresolvedIssue, out.Failures[0].Code)

	assert.Equal(t, 2, out.Report.TotalEvaluated)
	assert.Equal(t, 50.0, out.Report.ComplianceRate)
}

func TestEvaluateBatchValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"empty issues", dto.EvaluateBatchRequest{}, apperrors.CodeValidationFailed},
		{
			"missing issue id",
			dto.EvaluateBatchRequest{Issues: []dto.IssueRecordRequest{
				issueRequest("", domain.PriorityHigh, "2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z"),
			}},
			apperrors.CodeValidationFailed,
		},
		{
			"missing created at",
			dto.EvaluateBatchRequest{Issues: []dto.IssueRecordRequest{
				{IssueID: "PROJ-1", Priority: domain.PriorityHigh},
			}},
			apperrors.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, app, "/v1/evaluations", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.code, out.Error.Code)
		})
	}
}

func TestEvaluateBatchRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodPost, "/v1/evaluations", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
