package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// RedisStore persists holiday entries as JSON values keyed
// holidays:{COUNTRY}:{year}. Entries carry no TTL; holidays for fixed years do
// not change.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, countryCode string, year int) ([]domain.Holiday, bool, error) {
	data, err := s.client.Get(ctx, s.key(countryCode, year)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis holiday cache get: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decode holiday cache %s/%d: %w", countryCode, year, err)
	}

	holidays := make([]domain.Holiday, 0, len(entries))
	for _, entry := range entries {
		day, err := time.ParseInLocation("2006-01-02", entry.Date, time.UTC)
		if err != nil {
			return nil, false, fmt.Errorf("decode holiday cache %s/%d: %w", countryCode, year, err)
		}
		holidays = append(holidays, domain.Holiday{
			Date:        day,
			LocalName:   entry.LocalName,
			Name:        entry.Name,
			CountryCode: countryCode,
		})
	}
	return holidays, true, nil
}

func (s *RedisStore) Save(ctx context.Context, countryCode string, year int, holidays []domain.Holiday) error {
	entries := make([]fileEntry, 0, len(holidays))
	for _, h := range holidays {
		entries = append(entries, fileEntry{
			Date:      h.Date.UTC().Format("2006-01-02"),
			LocalName: h.LocalName,
			Name:      h.Name,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(countryCode, year), data, 0).Err(); err != nil {
		return fmt.Errorf("redis holiday cache set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, countryCode string, year int) error {
	if err := s.client.Del(ctx, s.key(countryCode, year)).Err(); err != nil {
		return fmt.Errorf("redis holiday cache del: %w", err)
	}
	return nil
}

func (s *RedisStore) key(countryCode string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", strings.ToUpper(countryCode), year)
}
