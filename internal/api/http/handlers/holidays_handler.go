package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-engine/internal/api/dto"
	"github.com/spec-kit/sla-engine/internal/holiday"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// HolidaysHandler exposes the holiday cache for inspection and manual refresh.
type HolidaysHandler struct {
	provider       *holiday.Provider
	defaultCountry string
}

// NewHolidaysHandler returns a new handler instance.
func NewHolidaysHandler(provider *holiday.Provider, defaultCountry string) *HolidaysHandler {
	return &HolidaysHandler{provider: provider, defaultCountry: defaultCountry}
}

// GetYear returns the holidays for one year, fetching on cache miss.
func (h *HolidaysHandler) GetYear(c *fiber.Ctx) error {
	country, year, err := h.params(c)
	if err != nil {
		return err
	}

	holidays, err := h.provider.HolidaysForYear(c.UserContext(), country, year)
	if err != nil {
		return err
	}

	resp := dto.HolidayYearResponse{
		CountryCode: country,
		Year:        year,
		Count:       len(holidays),
		Holidays:    make([]dto.HolidayResponse, 0, len(holidays)),
	}
	for _, entry := range holidays {
		resp.Holidays = append(resp.Holidays, dto.HolidayResponse{
			Date:      entry.Date.UTC().Format("2006-01-02"),
			LocalName: entry.LocalName,
			Name:      entry.Name,
		})
	}
	return c.JSON(resp)
}

// RefreshYear forces a refetch of one cached year.
func (h *HolidaysHandler) RefreshYear(c *fiber.Ctx) error {
	country, year, err := h.params(c)
	if err != nil {
		return err
	}

	if err := h.provider.Refresh(c.UserContext(), country, year); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"country_code": country,
		"year":         year,
		"status":       "refreshed",
	})
}

func (h *HolidaysHandler) params(c *fiber.Ctx) (string, int, error) {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1900 || year > 2200 {
		return "", 0, apperrors.NewValidationError("invalid year", map[string]any{"year": c.Params("year")})
	}

	country := strings.ToUpper(strings.TrimSpace(c.Query("country", h.defaultCountry)))
	if country == "" {
		return "", 0, apperrors.NewValidationError("country is required", nil)
	}
	return country, year, nil
}
