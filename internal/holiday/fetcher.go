package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/config"
	"github.com/spec-kit/sla-engine/internal/domain"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// Fetcher retrieves the holiday list for one country and year from a remote
// source.
type Fetcher interface {
	FetchYear(ctx context.Context, countryCode string, year int) ([]domain.Holiday, error)
}

// nagerEntry mirrors one element of the public-holiday API response.
type nagerEntry struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// HTTPFetcher calls a Nager-style public-holiday API
// (GET {base}/{year}/{country}) with bounded retries.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	retries int
	logger  *zap.Logger
}

// NewHTTPFetcher builds a fetcher from holiday configuration.
func NewHTTPFetcher(cfg config.HolidayConfig, logger *zap.Logger) *HTTPFetcher {
	retries := cfg.FetchRetries
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		baseURL: cfg.APIBaseURL,
		client:  &http.Client{Timeout: cfg.FetchTimeout()},
		retries: retries,
		logger:  logger,
	}
}

// FetchYear fetches and parses the holiday list for (countryCode, year).
// Network errors and 5xx responses are retried with doubling backoff; any
// terminal failure surfaces as HOLIDAY_FETCH_FAILED.
func (f *HTTPFetcher) FetchYear(ctx context.Context, countryCode string, year int) ([]domain.Holiday, error) {
	url := fmt.Sprintf("%s/%d/%s", f.baseURL, year, countryCode)

	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying holiday fetch",
				zap.String("country", countryCode),
				zap.Int("year", year),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, apperrors.NewHolidayFetch(countryCode, year, ctx.Err())
			}
			backoff *= 2
		}

		holidays, retryable, err := f.fetchOnce(ctx, url, countryCode, year)
		if err == nil {
			return holidays, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, apperrors.NewHolidayFetch(countryCode, year, lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url, countryCode string, year int) ([]domain.Holiday, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("holiday source returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("holiday source returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	var entries []nagerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, false, fmt.Errorf("malformed holiday payload: %w", err)
	}

	holidays := make([]domain.Holiday, 0, len(entries))
	for _, entry := range entries {
		day, err := time.ParseInLocation("2006-01-02", entry.Date, time.UTC)
		if err != nil {
			return nil, false, fmt.Errorf("malformed holiday date %q: %w", entry.Date, err)
		}
		holidays = append(holidays, domain.Holiday{
			Date:        day,
			LocalName:   entry.LocalName,
			Name:        entry.Name,
			CountryCode: countryCode,
		})
	}

	f.logger.Debug("fetched holidays",
		zap.String("country", countryCode),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))
	return holidays, false, nil
}
