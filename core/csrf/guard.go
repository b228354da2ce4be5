package csrf

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/motorshare/authcore/core/httperr"
)

// secretClaim is the JWT claim carrying the CSRF secret. The secret never
// leaves the signed cookie; only tokens derived from it are exposed.
const secretClaim = "_csrf"

// Guard implements the storeless double-submit CSRF scheme. The secret lives
// inside a signed JWT carried by a cookie the client cannot forge; clients
// prove same-origin access by echoing a derived token in a request header.
type Guard struct {
	cfg        Config
	signingKey []byte
	ignored    map[string]struct{}
	log        *slog.Logger
}

// New creates a guard from the given configuration.
func New(cfg Config, opts ...Option) (*Guard, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	if len(cfg.SigningKey) < 32 {
		return nil, ErrSigningKeyTooShort
	}

	ignored := make(map[string]struct{}, len(cfg.IgnoredMethods))
	for _, m := range cfg.IgnoredMethods {
		ignored[strings.ToUpper(strings.TrimSpace(m))] = struct{}{}
	}

	g := &Guard{
		cfg:        cfg,
		signingKey: []byte(cfg.SigningKey),
		ignored:    ignored,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Middleware verifies anti-forgery material on every request.
//
// Unsafe methods require a signed token cookie whose embedded secret matches
// the token echoed in the request header. Safe methods only guarantee that a
// token exists afterwards, minting one when needed. Rejections terminate the
// request before it reaches application handlers.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unsafe := !g.isIgnored(r.Method)

		secret, hadCookie, validToken := g.resolveSecret(r)

		if unsafe {
			switch {
			case !hadCookie, !validToken:
				// Stale or malformed tokens reject the same way a missing
				// one does; the distinction is diagnostic only. Fresh
				// material is still issued so the client's next attempt can
				// succeed.
				if hadCookie {
					g.log.DebugContext(r.Context(), "rejecting stale or malformed csrf token cookie",
						"method", r.Method, "path", r.URL.Path)
				}
				g.issueFresh(w, r)
				httperr.Write(w, httperr.ErrUnauthenticated)
				return
			case secret == "":
				// A signed token without a secret cannot be trusted.
				g.log.WarnContext(r.Context(), "csrf token cookie carries no secret",
					"method", r.Method, "path", r.URL.Path)
				httperr.Write(w, httperr.ErrInvalidCSRF)
				return
			}

			presented := r.Header.Get(g.cfg.RequestHeader)
			if presented == "" || !VerifyToken(secret, presented) {
				httperr.Write(w, httperr.ErrInvalidCSRF)
				return
			}

			g.finish(w, r, next, secret, presented)
			return
		}

		// Safe method. Mint fresh material when there is no usable secret,
		// which also self-heals a signed token that lost its secret claim.
		if !validToken || secret == "" {
			fresh, err := GenerateSecret()
			if err != nil {
				g.log.ErrorContext(r.Context(), "failed to generate csrf secret", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			secret = fresh

			signed, err := g.signToken(secret, nil)
			if err != nil {
				g.log.ErrorContext(r.Context(), "failed to sign csrf token", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			g.setCookie(w, signed)
		}

		token, err := CreateToken(secret)
		if err != nil {
			g.log.ErrorContext(r.Context(), "failed to derive csrf token", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		g.finish(w, r, next, secret, token)
	})
}

// issueFresh mints a new secret, queues its signed cookie, and exposes a
// derived token in the response header. Used on rejections where the client
// held no usable material, so the next attempt can pass.
func (g *Guard) issueFresh(w http.ResponseWriter, r *http.Request) {
	secret, err := GenerateSecret()
	if err != nil {
		g.log.ErrorContext(r.Context(), "failed to generate csrf secret", "error", err)
		return
	}
	signed, err := g.signToken(secret, nil)
	if err != nil {
		g.log.ErrorContext(r.Context(), "failed to sign csrf token", "error", err)
		return
	}
	token, err := CreateToken(secret)
	if err != nil {
		g.log.ErrorContext(r.Context(), "failed to derive csrf token", "error", err)
		return
	}
	g.setCookie(w, signed)
	w.Header().Set(g.cfg.ResponseHeader, token)
}

// finish exposes the resolved material on the request context, hands the
// token back in the response header, and invokes the next handler.
func (g *Guard) finish(w http.ResponseWriter, r *http.Request, next http.Handler, secret, token string) {
	w.Header().Set(g.cfg.ResponseHeader, token)

	ctx := withSecret(r.Context(), secret)
	ctx = withToken(ctx, token)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// Reissue signs a new token cookie that merges the given claims with the
// request's current CSRF secret and queues it on the response. A login
// handler uses this to fold identity claims (including "sub") into the same
// signed token without losing the anti-forgery secret.
func (g *Guard) Reissue(w http.ResponseWriter, r *http.Request, claims map[string]any) (string, error) {
	secret, ok := SecretFromContext(r.Context())
	if !ok || secret == "" {
		return "", ErrMissingSecret
	}

	signed, err := g.signToken(secret, claims)
	if err != nil {
		return "", err
	}

	g.setCookie(w, signed)
	return signed, nil
}

// resolveSecret reads the token cookie and extracts the embedded secret.
// hadCookie reports cookie presence; validToken reports signature and expiry
// verification; secret is empty when the claim is absent.
func (g *Guard) resolveSecret(r *http.Request) (secret string, hadCookie, validToken bool) {
	cookie, err := r.Cookie(g.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false, false
	}

	claims, err := g.parseToken(cookie.Value)
	if err != nil {
		g.log.DebugContext(r.Context(), "csrf token cookie failed verification", "error", err)
		return "", true, false
	}

	s, _ := claims[secretClaim].(string)
	return s, true, true
}

// signToken builds a signed JWT carrying the secret plus any caller claims.
// Caller claims cannot override the secret claim.
func (g *Guard) signToken(secret string, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(g.cfg.TokenTTL).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	claims[secretClaim] = secret

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
}

// parseToken verifies signature, algorithm, and expiry of a token cookie.
func (g *Guard) parseToken(value string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(value,
		func(*jwt.Token) (any, error) { return g.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (g *Guard) setCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    value,
		Path:     g.cfg.CookiePath,
		MaxAge:   int(g.cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Guard) isIgnored(method string) bool {
	_, ok := g.ignored[strings.ToUpper(method)]
	return ok
}
