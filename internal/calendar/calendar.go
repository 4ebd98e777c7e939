package calendar

import (
	"time"

	"github.com/spec-kit/sla-engine/internal/domain"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// IsBusinessDay reports whether the calendar date of t (UTC) is a working day:
// not a Saturday, not a Sunday, and not in the holiday set. A holiday falling
// on a weekend is excluded once, not twice.
func IsBusinessDay(t time.Time, holidays *domain.HolidaySet) bool {
	day := t.UTC()
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(day)
}

// BusinessDaysBetween returns the business days in [start, end], inclusive of
// both endpoints, in ascending order. Only the calendar dates of the inputs
// matter. Returns INVALID_RANGE when end precedes start.
func BusinessDaysBetween(start, end time.Time, holidays *domain.HolidaySet) ([]time.Time, error) {
	from := startOfDay(start)
	to := startOfDay(end)
	if to.Before(from) {
		return nil, apperrors.NewInvalidRange("end date precedes start date", map[string]any{
			"start": from.Format("2006-01-02"),
			"end":   to.Format("2006-01-02"),
		})
	}

	var days []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if IsBusinessDay(day, holidays) {
			days = append(days, day)
		}
	}
	return days, nil
}

// startOfDay truncates t to UTC midnight.
func startOfDay(t time.Time) time.Time {
	day := t.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
