package authapi

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("AUTH_ENV", "")
		t.Setenv("AUTH_COOKIE_SECURE", "")
		t.Setenv("AUTH_COOKIE_DOMAIN", "")
		t.Setenv("AUTH_MAX_BODY_BYTES", "")

		cfg := LoadConfigFromEnv()
		if cfg.AccessCookieName != "ATN" || cfg.RefreshCookieName != "RTN" || cfg.MarkerCookieName != "SID" {
			t.Errorf("cookie names = %q/%q/%q", cfg.AccessCookieName, cfg.RefreshCookieName, cfg.MarkerCookieName)
		}
		if cfg.CookieSecure {
			t.Error("secure cookies outside production")
		}
		if cfg.MaxBodyBytes != 1<<20 {
			t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Errorf("SessionTTL = %v", cfg.SessionTTL)
		}
	})

	t.Run("production turns cookies secure", func(t *testing.T) {
		t.Setenv("AUTH_ENV", "production")
		t.Setenv("AUTH_COOKIE_SECURE", "")
		if cfg := LoadConfigFromEnv(); !cfg.CookieSecure {
			t.Error("CookieSecure = false in production")
		}
	})

	t.Run("explicit secure flag overrides environment", func(t *testing.T) {
		t.Setenv("AUTH_ENV", "production")
		t.Setenv("AUTH_COOKIE_SECURE", "false")
		if cfg := LoadConfigFromEnv(); cfg.CookieSecure {
			t.Error("CookieSecure = true despite explicit override")
		}
	})

	t.Run("domain and body limit", func(t *testing.T) {
		t.Setenv("AUTH_COOKIE_DOMAIN", "auth.example.com")
		t.Setenv("AUTH_MAX_BODY_BYTES", "4096")
		cfg := LoadConfigFromEnv()
		if cfg.CookieDomain != "auth.example.com" {
			t.Errorf("CookieDomain = %q", cfg.CookieDomain)
		}
		if cfg.MaxBodyBytes != 4096 {
			t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
		}
	})
}
