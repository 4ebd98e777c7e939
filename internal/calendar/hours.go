package calendar

import (
	"time"

	"github.com/spec-kit/sla-engine/internal/domain"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// BusinessHours computes the elapsed business hours between two UTC
// timestamps. The span is partitioned by calendar date; every full business
// day contributes 24 hours, a partial first or last day contributes its actual
// overlap with the day's 24-hour window, and weekend or holiday dates
// contribute nothing. The overlap is accumulated as an integer nanosecond
// duration and converted to hours once, so long spans do not drift.
//
// Returns 0 when start equals end and INVALID_RANGE when end precedes start.
func BusinessHours(start, end time.Time, holidays *domain.HolidaySet) (float64, error) {
	from := start.UTC()
	to := end.UTC()
	if to.Before(from) {
		return 0, apperrors.NewInvalidRange("end precedes start", map[string]any{
			"start": from.Format(time.RFC3339),
			"end":   to.Format(time.RFC3339),
		})
	}
	if to.Equal(from) {
		return 0, nil
	}

	var total time.Duration
	lastDay := startOfDay(to)
	for day := startOfDay(from); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if !IsBusinessDay(day, holidays) {
			continue
		}
		dayEnd := day.AddDate(0, 0, 1)
		overlapStart := maxTime(from, day)
		overlapEnd := minTime(to, dayEnd)
		if overlapEnd.After(overlapStart) {
			total += overlapEnd.Sub(overlapStart)
		}
	}

	return float64(total) / float64(time.Hour), nil
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
