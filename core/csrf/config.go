package csrf

import (
	"log/slog"
	"time"
)

// Config provides environment-based configuration for the token-embedded guard.
type Config struct {
	// CookieName carries the signed token. Distinct from the session cookie
	// namespace so both schemes can coexist on one host.
	CookieName string `env:"CSRF_COOKIE_NAME" envDefault:"__csrf_token"`

	// RequestHeader is where clients must echo the token on unsafe methods.
	RequestHeader string `env:"CSRF_REQUEST_HEADER" envDefault:"X-CSRF-Token"`

	// ResponseHeader is where the guard hands the current token back.
	ResponseHeader string `env:"CSRF_RESPONSE_HEADER" envDefault:"X-CSRF-Token"`

	// IgnoredMethods skip full verification; they only guarantee that valid
	// anti-forgery material exists afterwards.
	IgnoredMethods []string `env:"CSRF_IGNORED_METHODS" envDefault:"GET,HEAD,OPTIONS,TRACE"`

	// SigningKey signs the token cookie. Required, at least 32 bytes.
	SigningKey string `env:"CSRF_SIGNING_KEY,required"`

	// TokenTTL bounds the lifetime of an issued token cookie.
	TokenTTL time.Duration `env:"CSRF_TOKEN_TTL" envDefault:"12h"`

	CookiePath    string `env:"CSRF_COOKIE_PATH" envDefault:"/"`
	SecureCookies bool   `env:"CSRF_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns a Config with defaults applied. SigningKey must still
// be set by the caller.
func DefaultConfig() Config {
	return Config{
		CookieName:     "__csrf_token",
		RequestHeader:  "X-CSRF-Token",
		ResponseHeader: "X-CSRF-Token",
		IgnoredMethods: []string{"GET", "HEAD", "OPTIONS", "TRACE"},
		TokenTTL:       12 * time.Hour,
		CookiePath:     "/",
	}
}

// Option is a functional option for configuring the guard.
type Option func(*Guard)

// WithLogger sets the logger used for verification-failure diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}
