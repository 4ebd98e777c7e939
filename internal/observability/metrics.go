package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	evaluations    int64
	violations     int64
	failureCount   map[string]int64
	holidayHits    int64
	holidayFetches int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		failureCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordEvaluation counts one evaluated issue and whether it met its SLA.
func (m *Metrics) RecordEvaluation(met bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations++
	if !met {
		m.violations++
	}
}

// RecordEvaluationFailure counts a per-record evaluation failure by error code.
func (m *Metrics) RecordEvaluationFailure(code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureCount[code]++
}

// RecordHolidayLookup counts a holiday year resolution; cacheHit is false when
// a remote fetch was needed.
func (m *Metrics) RecordHolidayLookup(cacheHit bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cacheHit {
		m.holidayHits++
	} else {
		m.holidayFetches++
	}
}

// Snapshot returns a copy of all counters for the metrics endpoint.
func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make(map[string]int64, len(m.requestCount))
	for k, v := range m.requestCount {
		requests[k] = v
	}
	errs := make(map[string]int64, len(m.errorCount))
	for k, v := range m.errorCount {
		errs[k] = v
	}
	failures := make(map[string]int64, len(m.failureCount))
	for k, v := range m.failureCount {
		failures[k] = v
	}

	return map[string]any{
		"requests":             requests,
		"errors":               errs,
		"evaluations":          m.evaluations,
		"sla_violations":       m.violations,
		"evaluation_failures":  failures,
		"holiday_cache_hits":   m.holidayHits,
		"holiday_cache_misses": m.holidayFetches,
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
