package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBusinessHours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		holidays []string
		want     float64
	}{
		{
			name:  "zero for equal timestamps",
			start: "2026-03-03T10:00:00Z",
			end:   "2026-03-03T10:00:00Z",
			want:  0,
		},
		{
			name:  "full business week monday to monday",
			start: "2026-03-02T00:00:00Z",
			end:   "2026-03-09T00:00:00Z",
			want:  120,
		},
		{
			name:  "two full business days with partial ends",
			start: "2026-03-02T09:00:00Z",
			end:   "2026-03-04T09:00:00Z",
			want:  48,
		},
		{
			name:  "friday afternoon to monday midnight",
			start: "2026-03-06T15:00:00Z",
			end:   "2026-03-09T00:00:00Z",
			want:  9,
		},
		{
			name:  "friday afternoon to monday morning counts monday overlap",
			start: "2026-03-06T15:00:00Z",
			end:   "2026-03-09T09:00:00Z",
			want:  18,
		},
		{
			name:  "entire span within one weekend day",
			start: "2026-03-07T10:00:00Z",
			end:   "2026-03-07T16:00:00Z",
			want:  0,
		},
		{
			name:  "entire span across whole weekend",
			start: "2026-03-07T00:00:00Z",
			end:   "2026-03-09T00:00:00Z",
			want:  0,
		},
		{
			name:     "weekday holiday excluded",
			start:    "2026-03-02T09:00:00Z",
			end:      "2026-03-04T09:00:00Z",
			holidays: []string{"2026-03-03"},
			want:     24,
		},
		{
			name:     "entire span on a holiday",
			start:    "2026-03-03T08:00:00Z",
			end:      "2026-03-03T18:00:00Z",
			holidays: []string{"2026-03-03"},
			want:     0,
		},
		{
			name:  "fractional hours at boundaries",
			start: "2026-03-03T09:30:00Z",
			end:   "2026-03-03T10:15:00Z",
			want:  0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BusinessHours(ts(tt.start), ts(tt.end), holidaySet(tt.holidays...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBusinessHoursInvalidRange(t *testing.T) {
	_, err := BusinessHours(ts("2026-03-04T09:00:00Z"), ts("2026-03-02T09:00:00Z"), holidaySet())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRange))
}

func TestBusinessHoursHolidayOnWeekendNotDoubleExcluded(t *testing.T) {
	start := ts("2026-03-06T00:00:00Z")
	end := ts("2026-03-10T00:00:00Z")

	plain, err := BusinessHours(start, end, holidaySet())
	require.NoError(t, err)
	withWeekendHoliday, err := BusinessHours(start, end, holidaySet("2026-03-07"))
	require.NoError(t, err)

	assert.Equal(t, plain, withWeekendHoliday)
	assert.InDelta(t, 48, plain, 1e-9)
}

func TestBusinessHoursMonotonicInEnd(t *testing.T) {
	holidays := holidaySet("2026-03-04")
	start := ts("2026-03-02T13:00:00Z")

	prev := 0.0
	for end := start; end.Before(start.AddDate(0, 0, 14)); end = end.Add(7 * time.Hour) {
		got, err := BusinessHours(start, end, holidays)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestBusinessHoursMonthLongSpanExact(t *testing.T) {
	// 2026-03-02 is a Monday. Full business days 2026-03-03..2026-04-02 with no
	// holidays: 23 days (21 in March, 2 in April) -> 552h. Partial ends add
	// 10.5h (13:30-24:00) and 17.75h (00:00-17:45).
	start := ts("2026-03-02T13:30:00Z")
	end := ts("2026-04-03T17:45:00Z")

	got, err := BusinessHours(start, end, holidaySet())
	require.NoError(t, err)
	assert.InDelta(t, 580.25, got, 1e-6)
}

func TestBusinessHoursSplitsAdditively(t *testing.T) {
	holidays := holidaySet("2026-03-17")
	start := ts("2026-03-02T08:20:00Z")
	end := ts("2026-03-27T19:40:00Z")

	whole, err := BusinessHours(start, end, holidays)
	require.NoError(t, err)

	for _, mid := range []string{
		"2026-03-09T00:00:00Z",
		"2026-03-14T12:00:00Z",
		"2026-03-17T09:30:00Z",
	} {
		left, err := BusinessHours(start, ts(mid), holidays)
		require.NoError(t, err)
		right, err := BusinessHours(ts(mid), end, holidays)
		require.NoError(t, err)
		assert.InDelta(t, whole, left+right, 1e-9)
	}
}
