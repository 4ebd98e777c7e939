package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends selectable for the persisted holiday store.
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendRedis  = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Holiday      HolidayConfig
	Sla          SlaConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// HolidayConfig controls the holiday provider and its cache.
type HolidayConfig struct {
	APIBaseURL          string
	CountryCode         string
	CacheBackend        string
	CacheDir            string
	AllowMissing        bool
	FetchTimeoutSeconds int
	FetchRetries        int
}

// SlaConfig holds the per-priority expected-hours table and batch settings.
type SlaConfig struct {
	HighHours   float64
	MediumHours float64
	LowHours    float64
	Workers     int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines service-client authentication parameters. Auth is
// disabled when no client secret (or hash) is configured.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	ClientID              string
	ClientSecret          string
	ClientSecretHash      string
	BcryptCost            int
}

// NotificationConfig holds the violation webhook endpoint.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	highHours, err := getEnvAsFloat("SLA_HOURS_HIGH", 24)
	if err != nil {
		return nil, err
	}
	mediumHours, err := getEnvAsFloat("SLA_HOURS_MEDIUM", 72)
	if err != nil {
		return nil, err
	}
	lowHours, err := getEnvAsFloat("SLA_HOURS_LOW", 120)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sla-engine"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Holiday: HolidayConfig{
			APIBaseURL:          getEnv("HOLIDAY_API_URL", "https://date.nager.at/api/v3/PublicHolidays"),
			CountryCode:         getEnv("HOLIDAY_COUNTRY_CODE", "BR"),
			CacheBackend:        getEnv("HOLIDAY_CACHE_BACKEND", CacheBackendFile),
			CacheDir:            getEnv("HOLIDAY_CACHE_DIR", "data/reference/holidays"),
			AllowMissing:        getEnvAsBool("HOLIDAY_ALLOW_MISSING", false),
			FetchTimeoutSeconds: getEnvAsInt("HOLIDAY_FETCH_TIMEOUT_SECONDS", 30),
			FetchRetries:        getEnvAsInt("HOLIDAY_FETCH_RETRIES", 2),
		},
		Sla: SlaConfig{
			HighHours:   highHours,
			MediumHours: mediumHours,
			LowHours:    lowHours,
			Workers:     getEnvAsInt("SLA_BATCH_WORKERS", 4),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			ClientID:              getEnv("AUTH_CLIENT_ID", ""),
			ClientSecret:          os.Getenv("AUTH_CLIENT_SECRET"),
			ClientSecretHash:      os.Getenv("AUTH_CLIENT_SECRET_HASH"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
		},
	}

	switch cfg.Holiday.CacheBackend {
	case CacheBackendMemory, CacheBackendFile, CacheBackendRedis:
	default:
		return nil, fmt.Errorf("invalid HOLIDAY_CACHE_BACKEND: %q", cfg.Holiday.CacheBackend)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// FetchTimeout returns the remote holiday fetch timeout.
func (h HolidayConfig) FetchTimeout() time.Duration {
	if h.FetchTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(h.FetchTimeoutSeconds) * time.Second
}

// Enabled reports whether client authentication is configured.
func (a AuthConfig) Enabled() bool {
	return a.ClientID != "" && (a.ClientSecret != "" || a.ClientSecretHash != "")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
