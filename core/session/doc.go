// Package session implements cookie-based session lifecycle management over
// a replicated store, with built-in double-submit CSRF protection.
//
// # Lifecycle
//
// Every visitor holds exactly one record at a time. Anonymous visitors get a
// pre-session carrying anti-forgery material only; logging in promotes it to
// an authenticated session holding an identity snapshot. Both transitions
// replace the record wholesale: a new ID and a new CSRF secret are issued and
// the old record is deleted, so a cookie captured before login is worthless
// afterwards.
//
// # Resolution
//
// The manager middleware resolves the session on every request: it reads the
// cookie, loads the record, validates structure, expiry (absolute and idle),
// and the stored IP/User-Agent fingerprint, and falls back to a fresh
// pre-session whenever anything fails validation. Store failures are the one
// exception: they abort the request with 503 instead of downgrading an
// authenticated user to anonymous.
//
// # Stores
//
// RedisStore is the production backend: JSON values with a TTL matching the
// absolute deadline, plus a per-user index set for bulk revocation. PGStore
// offers the same contract on Postgres (migrations included, see
// Migrations). MemoryStore backs tests and single-node development.
//
// # Usage
//
//	store := session.NewRedisStore(client)
//	manager, err := session.NewManager(store, cfg, session.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	handler := manager.Middleware(manager.RequireCSRF(mux))
//
// Handlers reach the session through the request context:
//
//	scope, _ := session.FromContext(r.Context())
//	if err := scope.Promote(r.Context(), identity); err != nil {
//		// ...
//	}
package session
