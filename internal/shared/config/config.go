package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"inspection-backend/internal/shared/telemetry"
)

const (
	defaultWorkerVisibilitySeconds = 120
	defaultWorkerConcurrency       = 4
	defaultWorkerShutdownSeconds   = 30
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	DatabaseURL      string
	RedisURL         string
	Env              string
	LogLevel         string
	LogFormat        string
	JWTSecret        string
	PublicBaseURL    string
	SMSProvider      string
	SMSSenderID      string
	AWSRegion        string
	NotifyQueueURL   string
	ShortLinkTTL     time.Duration
	DefaultLaborRate float64

	// Notification worker settings.
	WorkerVisibilitySeconds int
	WorkerConcurrency       int
	WorkerShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing env wins.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("SMS_PROVIDER", "log")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("SHORTLINK_TTL", "720h")
	v.SetDefault("DEFAULT_LABOR_RATE", 120.0)
	v.SetDefault("NOTIFY_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultWorkerVisibilitySeconds)
	v.SetDefault("NOTIFY_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	v.SetDefault("NOTIFY_SHUTDOWN_TIMEOUT_SECONDS", defaultWorkerShutdownSeconds)

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Error("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}

	ttl := v.GetDuration("SHORTLINK_TTL")
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	return Config{
		Port:             v.GetString("PORT"),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:      dbURL,
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		Env:              env,
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
		JWTSecret:        v.GetString("JWT_SECRET"),
		PublicBaseURL:    strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		SMSProvider:      normalizeSMSProvider(v.GetString("SMS_PROVIDER")),
		SMSSenderID:      v.GetString("SMS_SENDER_ID"),
		AWSRegion:        v.GetString("AWS_REGION"),
		NotifyQueueURL:   strings.TrimSpace(v.GetString("NOTIFY_SQS_QUEUE_URL")),
		ShortLinkTTL:     ttl,
		DefaultLaborRate: v.GetFloat64("DEFAULT_LABOR_RATE"),

		WorkerVisibilitySeconds: positiveInt(v.GetInt("NOTIFY_SQS_VISIBILITY_TIMEOUT_SECONDS"), defaultWorkerVisibilitySeconds),
		WorkerConcurrency:       positiveInt(v.GetInt("NOTIFY_WORKER_CONCURRENCY"), defaultWorkerConcurrency),
		WorkerShutdownTimeout:   time.Duration(positiveInt(v.GetInt("NOTIFY_SHUTDOWN_TIMEOUT_SECONDS"), defaultWorkerShutdownSeconds)) * time.Second,
	}
}

func positiveInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeSMSProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sns":
		return "sns"
	default:
		return "log"
	}
}

// IsDevLike reports whether env allows in-memory fallbacks and header identities.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
