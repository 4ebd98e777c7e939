package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sla-engine", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())

	assert.Equal(t, "https://date.nager.at/api/v3/PublicHolidays", cfg.Holiday.APIBaseURL)
	assert.Equal(t, "BR", cfg.Holiday.CountryCode)
	assert.Equal(t, CacheBackendFile, cfg.Holiday.CacheBackend)
	assert.False(t, cfg.Holiday.AllowMissing)

	assert.Equal(t, 24.0, cfg.Sla.HighHours)
	assert.Equal(t, 72.0, cfg.Sla.MediumHours)
	assert.Equal(t, 120.0, cfg.Sla.LowHours)
	assert.Equal(t, 4, cfg.Sla.Workers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOLIDAY_COUNTRY_CODE", "DE")
	t.Setenv("HOLIDAY_CACHE_BACKEND", "redis")
	t.Setenv("HOLIDAY_ALLOW_MISSING", "true")
	t.Setenv("SLA_HOURS_HIGH", "8")
	t.Setenv("SLA_BATCH_WORKERS", "16")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "DE", cfg.Holiday.CountryCode)
	assert.Equal(t, CacheBackendRedis, cfg.Holiday.CacheBackend)
	assert.True(t, cfg.Holiday.AllowMissing)
	assert.Equal(t, 8.0, cfg.Sla.HighHours)
	assert.Equal(t, 16, cfg.Sla.Workers)
}

func TestLoadRejectsInvalidCacheBackend(t *testing.T) {
	t.Setenv("HOLIDAY_CACHE_BACKEND", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOLIDAY_CACHE_BACKEND")
}

func TestLoadRejectsInvalidSlaHours(t *testing.T) {
	t.Setenv("SLA_HOURS_MEDIUM", "three days")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLA_HOURS_MEDIUM")
}

func TestFetchTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, HolidayConfig{}.FetchTimeout())
	assert.Equal(t, 5*time.Second, HolidayConfig{FetchTimeoutSeconds: 5}.FetchTimeout())
}

func TestAuthEnabled(t *testing.T) {
	assert.False(t, AuthConfig{}.Enabled())
	assert.False(t, AuthConfig{ClientID: "svc"}.Enabled())
	assert.True(t, AuthConfig{ClientID: "svc", ClientSecret: "s3cret"}.Enabled())
	assert.True(t, AuthConfig{ClientID: "svc", ClientSecretHash: "$2a$12$abc"}.Enabled())
}
