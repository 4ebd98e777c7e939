package holiday

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-engine/internal/domain"
	"github.com/spec-kit/sla-engine/internal/observability"
)

// Provider resolves holiday sets for (countryCode, years), reading through an
// in-process cache to the persisted store and fetching from the remote source
// on miss. First-time fetches for the same key are serialized by a key-scoped
// lock so concurrent evaluations never trigger duplicate remote calls or
// concurrent writes to the store.
//
// When AllowMissing is set, a year whose fetch fails is treated as having zero
// holidays. Degraded years are remembered in-process only and are never
// persisted, so a later run (or an explicit Refresh) retries the fetch.
type Provider struct {
	fetcher      Fetcher
	store        Store
	logger       *zap.Logger
	metrics      *observability.Metrics
	allowMissing bool

	mu       sync.RWMutex
	cache    map[string][]domain.Holiday
	degraded map[string]struct{}

	lockMu   sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// ProviderDependencies bundles the provider's collaborators.
type ProviderDependencies struct {
	Fetcher      Fetcher
	Store        Store
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	AllowMissing bool
}

// NewProvider constructs the provider.
func NewProvider(deps ProviderDependencies) *Provider {
	return &Provider{
		fetcher:      deps.Fetcher,
		store:        deps.Store,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		allowMissing: deps.AllowMissing,
		cache:        make(map[string][]domain.Holiday),
		degraded:     make(map[string]struct{}),
		keyLocks:     make(map[string]*sync.Mutex),
	}
}

// Holidays returns the holiday set for the country restricted to the requested
// years. Every requested year is marked on the set, including degraded
// zero-holiday years.
func (p *Provider) Holidays(ctx context.Context, countryCode string, years []int) (*domain.HolidaySet, error) {
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	set := domain.NewHolidaySet(countryCode)
	for _, year := range sorted {
		if set.HasYear(year) {
			continue
		}
		holidays, err := p.loadYear(ctx, countryCode, year)
		if err != nil {
			return nil, err
		}
		set.MarkYear(year)
		for _, h := range holidays {
			set.Add(h)
		}
	}
	return set, nil
}

// HolidaysForYear returns the holiday entries for a single (countryCode,
// year), loading through the cache like Holidays.
func (p *Provider) HolidaysForYear(ctx context.Context, countryCode string, year int) ([]domain.Holiday, error) {
	return p.loadYear(ctx, countryCode, year)
}

// Refresh discards any cached entry for (countryCode, year) and fetches it
// again, persisting the fresh result. Degraded mode does not apply here; a
// failed refresh always surfaces the fetch error.
func (p *Provider) Refresh(ctx context.Context, countryCode string, year int) error {
	key := cacheKey(countryCode, year)
	lock := p.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	holidays, err := p.fetcher.FetchYear(ctx, countryCode, year)
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, countryCode, year, holidays); err != nil {
		return fmt.Errorf("persist holidays %s/%d: %w", countryCode, year, err)
	}

	p.mu.Lock()
	p.cache[key] = holidays
	delete(p.degraded, key)
	p.mu.Unlock()

	p.logger.Info("refreshed holidays",
		zap.String("country", countryCode),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))
	return nil
}

func (p *Provider) loadYear(ctx context.Context, countryCode string, year int) ([]domain.Holiday, error) {
	key := cacheKey(countryCode, year)

	if holidays, ok := p.cached(key); ok {
		p.metrics.RecordHolidayLookup(true)
		return holidays, nil
	}

	lock := p.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another goroutine may have loaded the year while we waited.
	if holidays, ok := p.cached(key); ok {
		p.metrics.RecordHolidayLookup(true)
		return holidays, nil
	}

	if holidays, ok, err := p.store.Load(ctx, countryCode, year); err != nil {
		p.logger.Warn("holiday store read failed; falling back to fetch",
			zap.String("country", countryCode), zap.Int("year", year), zap.Error(err))
	} else if ok {
		p.metrics.RecordHolidayLookup(true)
		p.remember(key, holidays)
		return holidays, nil
	}

	p.metrics.RecordHolidayLookup(false)
	holidays, err := p.fetcher.FetchYear(ctx, countryCode, year)
	if err != nil {
		if !p.allowMissing {
			return nil, err
		}
		p.logger.Warn("holiday fetch failed; degrading to zero holidays for year",
			zap.String("country", countryCode), zap.Int("year", year), zap.Error(err))
		p.mu.Lock()
		p.cache[key] = nil
		p.degraded[key] = struct{}{}
		p.mu.Unlock()
		return nil, nil
	}

	if err := p.store.Save(ctx, countryCode, year, holidays); err != nil {
		// The fetched data is still usable this run; only persistence failed.
		p.logger.Warn("holiday store write failed",
			zap.String("country", countryCode), zap.Int("year", year), zap.Error(err))
	}
	p.remember(key, holidays)
	return holidays, nil
}

// DegradedYears lists (countryCode, year) keys currently served with zero
// holidays because their fetch failed.
func (p *Provider) DegradedYears() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.degraded))
	for key := range p.degraded {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (p *Provider) cached(key string) ([]domain.Holiday, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	holidays, ok := p.cache[key]
	return holidays, ok
}

func (p *Provider) remember(key string, holidays []domain.Holiday) {
	p.mu.Lock()
	p.cache[key] = holidays
	p.mu.Unlock()
}

func (p *Provider) keyLock(key string) *sync.Mutex {
	p.lockMu.Lock()
	defer p.lockMu.Unlock()
	lock, ok := p.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.keyLocks[key] = lock
	}
	return lock
}

func cacheKey(countryCode string, year int) string {
	return fmt.Sprintf("%s:%d", strings.ToUpper(countryCode), year)
}
