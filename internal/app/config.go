package app

import (
	"errors"
	"time"
)

// ErrConfig is returned when required configuration is missing or invalid.
var ErrConfig = errors.New("invalid config")

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBMigrate   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	TokenLeeway        time.Duration

	// SessionTTL bounds the server-side session marker lifetime.
	SessionTTL time.Duration

	CORSOrigin string
}

// LoadConfig loads Config from environment variables with defaults.
// Secrets have no defaults; Validate rejects a blank one.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("AUTH_HTTP_ADDR", "0.0.0.0:5000"),
		LogLevel: EnvString("AUTH_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("AUTH_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("AUTH_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("AUTH_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("AUTH_HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    EnvInt("AUTH_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("AUTH_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("AUTH_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("AUTH_DB_MIN_CONNS", 0),
		DBMigrate:   EnvBool("AUTH_DB_MIGRATE", true),

		RedisAddr:     EnvString("AUTH_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: EnvString("AUTH_REDIS_PASSWORD", ""),
		RedisDB:       EnvInt("AUTH_REDIS_DB", 0),

		AccessTokenSecret:  EnvString("AUTH_ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: EnvString("AUTH_REFRESH_TOKEN_SECRET", ""),
		AccessTokenTTL:     EnvDuration("AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    EnvDuration("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		TokenLeeway:        EnvDuration("AUTH_TOKEN_LEEWAY", 30*time.Second),

		SessionTTL: EnvDuration("AUTH_SESSION_TTL", 24*time.Hour),

		CORSOrigin: EnvString("AUTH_CORS_ORIGIN", "*"),
	}
}

// Validate checks the invariants LoadConfig cannot default away.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrConfig
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return ErrConfig
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return ErrConfig
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return ErrConfig
	}
	return nil
}
