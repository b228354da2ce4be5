package session

import (
	"net/http"

	"github.com/motorshare/authcore/core/httperr"
	"github.com/motorshare/authcore/pkg/logger"
)

// Middleware resolves the session for every request and exposes the scope on
// the request context. When the store is unreachable the request fails with
// 503 rather than proceeding as anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := m.Resolve(w, r)
		if err != nil {
			m.log.ErrorContext(r.Context(), "failed to resolve session",
				"method", r.Method, "path", r.URL.Path, logger.Error(err))
			httperr.Write(w, httperr.ErrStoreUnavailable)
			return
		}

		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), scope)))
	})
}

// RequireAuth rejects requests whose session carries no identity snapshot.
// It must run after Middleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := FromContext(r.Context())
		if !ok || !scope.IsAuthenticated() {
			httperr.Write(w, httperr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCSRF enforces the double-submit check on state-changing methods:
// the client must echo a token derived from the session's secret in the
// request header. Methods in Config.CSRFIgnoredMethods pass through
// untouched. It must run after Middleware.
func (m *Manager) RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.isIgnored(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		scope, ok := FromContext(r.Context())
		if !ok {
			httperr.Write(w, httperr.ErrUnauthenticated)
			return
		}

		if !scope.VerifyCSRF(r.Header.Get(m.cfg.CSRFRequestHeader)) {
			m.log.WarnContext(r.Context(), "rejecting request with missing or invalid csrf token",
				"method", r.Method, "path", r.URL.Path,
				logger.SessionID(scope.ID()))
			httperr.Write(w, httperr.ErrInvalidCSRF)
			return
		}

		next.ServeHTTP(w, r)
	})
}
