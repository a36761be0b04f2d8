package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Playback PlaybackConfig
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

// AuthConfig defines session authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLHours  int
	BcryptCost            int
}

// Replay store backends.
const (
	ReplayStoreMemory = "memory"
	ReplayStoreRedis  = "redis"
)

// PlaybackConfig defines the playback-token flow. SigningSecret is distinct
// from the session JWT secret and must never appear in logs or responses.
type PlaybackConfig struct {
	SigningSecret      string
	TokenTTLSeconds    int
	MaxTokenTTLSeconds int
	SingleUse          bool
	ReplayStore        string
	EmbedBaseURL       string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "playback-token-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
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
			RefreshTokenTTLHours:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 168),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Playback: PlaybackConfig{
			SigningSecret:      getEnv("PLAYBACK_SIGNING_SECRET", "playback-secret"),
			TokenTTLSeconds:    getEnvAsInt("PLAYBACK_TOKEN_TTL_SECONDS", 3600),
			MaxTokenTTLSeconds: getEnvAsInt("PLAYBACK_MAX_TOKEN_TTL_SECONDS", 86400),
			SingleUse:          getEnvAsBool("PLAYBACK_SINGLE_USE", false),
			ReplayStore:        getEnv("PLAYBACK_REPLAY_STORE", ReplayStoreMemory),
			EmbedBaseURL:       getEnv("PLAYBACK_EMBED_BASE_URL", "https://www.youtube.com/embed/"),
		},
	}

	if cfg.Playback.TokenTTLSeconds <= 0 || cfg.Playback.TokenTTLSeconds > cfg.Playback.MaxTokenTTLSeconds {
		return nil, fmt.Errorf("PLAYBACK_TOKEN_TTL_SECONDS must be in (0, %d]", cfg.Playback.MaxTokenTTLSeconds)
	}
	if cfg.Playback.ReplayStore != ReplayStoreMemory && cfg.Playback.ReplayStore != ReplayStoreRedis {
		return nil, fmt.Errorf("invalid PLAYBACK_REPLAY_STORE: %s", cfg.Playback.ReplayStore)
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

// TokenTTL returns the default playback token lifetime.
func (p PlaybackConfig) TokenTTL() time.Duration {
	return time.Duration(p.TokenTTLSeconds) * time.Second
}

// MaxTokenTTL returns the upper bound for any issued token lifetime.
func (p PlaybackConfig) MaxTokenTTL() time.Duration {
	return time.Duration(p.MaxTokenTTLSeconds) * time.Second
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
