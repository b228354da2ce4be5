package session

import (
	"errors"
	"time"
)

// Config holds the session manager settings. Defaults suit production; tests
// and local development typically flip SecureCookies off.
type Config struct {
	CookieName    string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
	CookiePath    string `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain  string `env:"SESSION_COOKIE_DOMAIN"`
	SecureCookies bool   `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	// IdleTimeout bounds the gap between consecutive requests; AbsoluteTimeout
	// bounds total record lifetime regardless of activity.
	IdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	AbsoluteTimeout time.Duration `env:"SESSION_ABSOLUTE_TIMEOUT" envDefault:"24h"`

	CSRFRequestHeader  string `env:"SESSION_CSRF_REQUEST_HEADER" envDefault:"X-CSRF-Token"`
	CSRFResponseHeader string `env:"SESSION_CSRF_RESPONSE_HEADER" envDefault:"X-CSRF-Token"`

	// CSRFIgnoredMethods lists methods RequireCSRF passes through without
	// verification.
	CSRFIgnoredMethods []string `env:"SESSION_CSRF_IGNORED_METHODS" envDefault:"GET,HEAD,OPTIONS,TRACE"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CookieName:         "__session",
		CookiePath:         "/",
		SecureCookies:      true,
		IdleTimeout:        30 * time.Minute,
		AbsoluteTimeout:    24 * time.Hour,
		CSRFRequestHeader:  "X-CSRF-Token",
		CSRFResponseHeader: "X-CSRF-Token",
		CSRFIgnoredMethods: []string{"GET", "HEAD", "OPTIONS", "TRACE"},
	}
}

// Validate checks the configuration for values the manager cannot run with.
func (c Config) Validate() error {
	if c.CookieName == "" {
		return errors.New("session: cookie name is required")
	}
	if c.AbsoluteTimeout <= 0 {
		return errors.New("session: absolute timeout must be positive")
	}
	if c.IdleTimeout < 0 {
		return errors.New("session: idle timeout must not be negative")
	}
	if c.IdleTimeout > c.AbsoluteTimeout {
		return errors.New("session: idle timeout must not exceed absolute timeout")
	}
	if c.CSRFRequestHeader == "" || c.CSRFResponseHeader == "" {
		return errors.New("session: csrf header names are required")
	}
	return nil
}
