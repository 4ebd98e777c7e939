package domain

import "time"

const dateLayout = "2006-01-02"

// Holiday is one national-holiday entry for a country.
type Holiday struct {
	Date        time.Time `json:"date"`
	LocalName   string    `json:"local_name"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
}

// HolidaySet holds the non-working dates for one country across a set of
// years. It is immutable once handed out by the provider; lookups are safe for
// concurrent use.
type HolidaySet struct {
	country string
	years   map[int]struct{}
	dates   map[string]struct{}
}

// NewHolidaySet returns an empty set for the given country.
func NewHolidaySet(countryCode string) *HolidaySet {
	return &HolidaySet{
		country: countryCode,
		years:   make(map[int]struct{}),
		dates:   make(map[string]struct{}),
	}
}

// Country returns the country code the set was built for.
func (s *HolidaySet) Country() string {
	return s.country
}

// Add records a holiday date and marks its year as loaded.
func (s *HolidaySet) Add(h Holiday) {
	day := h.Date.UTC()
	s.dates[day.Format(dateLayout)] = struct{}{}
	s.years[day.Year()] = struct{}{}
}

// MarkYear marks a year as loaded without adding dates. Used for years the
// remote source reported no holidays for, and for degraded zero-holiday years.
func (s *HolidaySet) MarkYear(year int) {
	s.years[year] = struct{}{}
}

// Contains reports whether the calendar date of t (UTC) is a holiday.
func (s *HolidaySet) Contains(t time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.dates[t.UTC().Format(dateLayout)]
	return ok
}

// HasYear reports whether holidays for the year have been loaded.
func (s *HolidaySet) HasYear(year int) bool {
	if s == nil {
		return false
	}
	_, ok := s.years[year]
	return ok
}

// Len returns the number of distinct holiday dates in the set.
func (s *HolidaySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}
