package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the registry service.
type Server struct {
	Addr        string
	Environment string

	// SnapshotPath is the durable registry snapshot file. Used when no
	// database URL is configured.
	SnapshotPath string

	// DatabaseURL selects the PostgreSQL backend when set.
	DatabaseURL string

	// RedisURL enables the Redis alert channel when set.
	RedisURL string

	// KafkaBrokers enables the Kafka alert sink when set (comma-separated).
	KafkaBrokers string
	AlertTopic   string

	// AdminToken guards operator endpoints (static dev token).
	AdminToken string
	// JWTSigningKey signs operator bearer tokens.
	JWTSigningKey string
	TokenTTL      time.Duration

	RequestTimeout time.Duration
	MaxBodyBytes   int64

	AlertBufferSize int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("ENROLLD_ADDR", ":8080"),
		Environment:     envOr("ENROLLD_ENV", "dev"),
		SnapshotPath:    envOr("ENROLLD_SNAPSHOT_PATH", "enrolld_registry.json"),
		DatabaseURL:     os.Getenv("ENROLLD_DATABASE_URL"),
		RedisURL:        os.Getenv("ENROLLD_REDIS_URL"),
		KafkaBrokers:    os.Getenv("ENROLLD_KAFKA_BROKERS"),
		AlertTopic:      envOr("ENROLLD_ALERT_TOPIC", "enrolld.alerts"),
		AdminToken:      envOr("ENROLLD_ADMIN_TOKEN", "dev-admin-token"),
		JWTSigningKey:   envOr("ENROLLD_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:        durationOr("ENROLLD_TOKEN_TTL", 15*time.Minute),
		RequestTimeout:  durationOr("ENROLLD_REQUEST_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    int64Or("ENROLLD_MAX_BODY_BYTES", 1<<20),
		AlertBufferSize: intOr("ENROLLD_ALERT_BUFFER", 1024),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func int64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
