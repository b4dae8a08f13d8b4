package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls cookie transport and request limits for the auth API.
type Config struct {
	AccessCookieName  string
	RefreshCookieName string
	MarkerCookieName  string

	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	// SessionTTL bounds the marker cookie lifetime; it must match the
	// server-side marker expiry so the browser stops presenting a SID
	// whose backing entry is gone.
	SessionTTL time.Duration

	MaxBodyBytes int64
}

// DefaultConfig returns the cookie policy the source deployment shipped
// with: ATN/RTN/SID, Lax, path-wide, secure only in production.
func DefaultConfig() Config {
	return Config{
		AccessCookieName:  "ATN",
		RefreshCookieName: "RTN",
		MarkerCookieName:  "SID",
		CookiePath:        "/",
		CookieSameSite:    http.SameSiteLaxMode,
		SessionTTL:        24 * time.Hour,
		MaxBodyBytes:      1 << 20, // 1 MiB
	}
}

// LoadConfigFromEnv loads auth API config from environment variables with
// safe defaults. Cookies turn secure when AUTH_ENV=production or
// AUTH_COOKIE_SECURE is set explicitly.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_DOMAIN")); v != "" {
		cfg.CookieDomain = v
	}

	cfg.CookieSecure = strings.EqualFold(strings.TrimSpace(os.Getenv("AUTH_ENV")), "production")
	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_SECURE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CookieSecure = b
		}
	}

	if v := strings.TrimSpace(os.Getenv("AUTH_MAX_BODY_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}

	return cfg
}
