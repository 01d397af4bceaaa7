package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted in JOTTER_STORAGE.
const (
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageS3       = "s3"
)

// DevJWTSigningKey signs tokens outside production when no key is configured.
const DevJWTSigningKey = "dev-secret-key-change-in-production"

// Server captures process-wide configuration.
type Server struct {
	Addr          string
	MetricsAddr   string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	TokenTTL      time.Duration
	ResetTTL      time.Duration
	Seed          bool
	// TrustedProxies is a CSV of CIDRs/IPs whose forwarding headers are honoured.
	TrustedProxies string

	Storage   StorageConfig
	Redis     RedisConfig
	S3        S3Config
	Kafka     KafkaConfig
	Postgres  PostgresConfig
	RateLimit RateLimitConfig
}

type StorageConfig struct {
	Backend    string
	SQLitePath string
}

type PostgresConfig struct {
	URL string
}

// RedisConfig mirrors the go-redis options we override.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// RateLimitConfig bounds requests per client IP on the public /auth routes.
// AuthLimit 0 disables the limit.
type RateLimitConfig struct {
	AuthLimit  int
	AuthWindow time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	ResetTopic string
}

// FromEnv builds a Server config from JOTTER_* environment variables.
func FromEnv() (Server, error) {
	tokenTTL, err := durationEnv("JOTTER_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Server{}, err
	}
	resetTTL, err := durationEnv("JOTTER_RESET_TTL", 30*time.Minute)
	if err != nil {
		return Server{}, err
	}

	backend := strings.ToLower(envOr("JOTTER_STORAGE", StorageSQLite))
	switch backend {
	case StorageSQLite, StorageMemory, StoragePostgres, StorageRedis, StorageS3:
	default:
		return Server{}, fmt.Errorf("JOTTER_STORAGE: unknown backend %q", backend)
	}

	poolSize, err := intEnv("JOTTER_REDIS_POOL_SIZE", 10)
	if err != nil {
		return Server{}, err
	}
	authLimit, err := intEnv("JOTTER_AUTH_RATE_LIMIT", 30)
	if err != nil {
		return Server{}, err
	}
	if authLimit < 0 {
		return Server{}, fmt.Errorf("JOTTER_AUTH_RATE_LIMIT: must not be negative")
	}
	authWindow, err := durationEnv("JOTTER_AUTH_RATE_WINDOW", time.Minute)
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Addr:           envOr("JOTTER_ADDR", ":8080"),
		MetricsAddr:    envOr("JOTTER_METRICS_ADDR", ":9090"),
		Environment:    envOr("JOTTER_ENV", "development"),
		LogLevel:       envOr("JOTTER_LOG_LEVEL", "info"),
		JWTSigningKey:  os.Getenv("JOTTER_JWT_SIGNING_KEY"),
		TokenTTL:       tokenTTL,
		ResetTTL:       resetTTL,
		Seed:           os.Getenv("JOTTER_SEED") == "true",
		TrustedProxies: os.Getenv("JOTTER_TRUSTED_PROXIES"),
		Storage: StorageConfig{
			Backend:    backend,
			SQLitePath: envOr("JOTTER_SQLITE_PATH", "jotter.db"),
		},
		Postgres: PostgresConfig{URL: os.Getenv("JOTTER_DATABASE_URL")},
		Redis: RedisConfig{
			URL:          os.Getenv("JOTTER_REDIS_URL"),
			PoolSize:     poolSize,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		S3: S3Config{
			Bucket:          os.Getenv("JOTTER_S3_BUCKET"),
			Region:          envOr("JOTTER_S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("JOTTER_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("JOTTER_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("JOTTER_S3_SECRET_ACCESS_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitCSV(os.Getenv("JOTTER_KAFKA_BROKERS")),
			ResetTopic: envOr("JOTTER_KAFKA_RESET_TOPIC", "password-reset-requested"),
		},
		RateLimit: RateLimitConfig{AuthLimit: authLimit, AuthWindow: authWindow},
	}

	if cfg.JWTSigningKey == "" {
		if cfg.Environment == "production" {
			return Server{}, fmt.Errorf("JOTTER_JWT_SIGNING_KEY is required in production")
		}
		cfg.JWTSigningKey = DevJWTSigningKey
	}
	if backend == StoragePostgres && cfg.Postgres.URL == "" {
		return Server{}, fmt.Errorf("JOTTER_DATABASE_URL is required for the postgres backend")
	}
	if backend == StorageRedis && cfg.Redis.URL == "" {
		return Server{}, fmt.Errorf("JOTTER_REDIS_URL is required for the redis backend")
	}
	if backend == StorageS3 && cfg.S3.Bucket == "" {
		return Server{}, fmt.Errorf("JOTTER_S3_BUCKET is required for the s3 backend")
	}
	return cfg, nil
}

// Client is the notesctl configuration.
type Client struct {
	ServerURL string
	Timeout   time.Duration
}

func ClientFromEnv() (Client, error) {
	timeout, err := durationEnv("JOTTER_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Client{}, err
	}
	return Client{
		ServerURL: strings.TrimRight(envOr("JOTTER_SERVER_URL", "http://localhost:8080"), "/"),
		Timeout:   timeout,
	}, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitCSV(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
