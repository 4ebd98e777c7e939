package handlers_test

import (
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
	"github.com/spec-kit/sla-engine/internal/holiday"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

type cannedFetcher struct {
	holidays []domain.Holiday
	calls    int
}

func (f *cannedFetcher) FetchYear(context.Context, string, int) ([]domain.Holiday, error) {
	f.calls++
	return f.holidays, nil
}

func newHolidaysApp(fetcher holiday.Fetcher) *fiber.App {
	provider := holiday.NewProvider(holiday.ProviderDependencies{
		Fetcher: fetcher,
		Store:   holiday.NewMemoryStore(),
		Logger:  zap.NewNop(),
	})
	handler := handlers.NewHolidaysHandler(provider, "BR")

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/v1/holidays/:year", handler.GetYear)
	app.Post("/v1/holidays/:year/refresh", handler.RefreshYear)
	return app
}

func TestGetHolidayYear(t *testing.T) {
	fetcher := &cannedFetcher{holidays: []domain.Holiday{
		{
			Date:        time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			LocalName:   "Independência do Brasil",
			Name:        "Independence Day",
			CountryCode: "BR",
		},
	}}
	app := newHolidaysApp(fetcher)

	req, _ := http.NewRequest(http.MethodGet, "/v1/holidays/2026", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out dto.HolidayYearResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "BR", out.CountryCode)
	assert.Equal(t, 2026, out.Year)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Holidays, 1)
	assert.Equal(t, "2026-09-07", out.Holidays[0].Date)
	assert.Equal(t, "Independence Day", out.Holidays[0].Name)
}

func TestGetHolidayYearRejectsBadYear(t *testing.T) {
	app := newHolidaysApp(&cannedFetcher{})

	for _, year := range []string{"abc", "1800", "9999"} {
		req, _ := http.NewRequest(http.MethodGet, "/v1/holidays/"+year, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, apperrors.CodeValidationFailed, out.Error.Code)
	}
}

func TestRefreshHolidayYear(t *testing.T) {
	fetcher := &cannedFetcher{}
	app := newHolidaysApp(fetcher)

	// Prime the cache, then force a refetch.
	req, _ := http.NewRequest(http.MethodGet, "/v1/holidays/2026", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, 1, fetcher.calls)

	req, _ = http.NewRequest(http.MethodPost, "/v1/holidays/2026/refresh", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, fetcher.calls)
}
