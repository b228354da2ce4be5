package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/motorshare/authcore/core/csrf"
	"github.com/motorshare/authcore/pkg/clientip"
	"github.com/motorshare/authcore/pkg/logger"
)

// Manager resolves the session for each request: cookie extraction, store
// lookup, validation, fingerprint anomaly detection, and the fallback to a
// fresh anonymous pre-session. Store failures are fatal to resolution; they
// are never downgraded to "no session".
type Manager struct {
	store   Store
	cfg     Config
	ignored map[string]struct{}
	log     *slog.Logger
	now     func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger. The default discards everything.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source. Tests use it to drive expiry.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager over the given store.
func NewManager(store Store, cfg Config, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session: store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ignored := make(map[string]struct{}, len(cfg.CSRFIgnoredMethods))
	for _, method := range cfg.CSRFIgnoredMethods {
		ignored[strings.ToUpper(strings.TrimSpace(method))] = struct{}{}
	}

	m := &Manager{
		store:   store,
		cfg:     cfg,
		ignored: ignored,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Resolve loads or creates the session for the request and returns a Scope
// bound to the response. Every successful resolution leaves a derived CSRF
// token in the response header; a new cookie is only written when the record
// was created or replaced.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*Scope, error) {
	ctx := r.Context()
	ip := clientip.GetIP(r)
	userAgent := r.UserAgent()

	scope := &Scope{mgr: m, w: w, r: r}

	rec, err := m.lookup(ctx, r, ip, userAgent)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		now := m.now()
		if _, err := m.store.Touch(ctx, rec.ID, now); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		rec.LastSeenAt = now
		scope.rec = rec
		scope.emitCSRFHeader()
		return scope, nil
	}

	fresh, err := m.createPreSession(ctx, ip, userAgent)
	if err != nil {
		return nil, err
	}
	scope.rec = fresh
	scope.emitCookie()
	scope.emitCSRFHeader()
	return scope, nil
}

func (m *Manager) isIgnored(method string) bool {
	_, ok := m.ignored[strings.ToUpper(method)]
	return ok
}

// lookup resolves the cookie to a live, valid record, or nil when the
// request should fall back to a fresh pre-session. Only store failures
// return an error.
func (m *Manager) lookup(ctx context.Context, r *http.Request, ip, userAgent string) (*Record, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	id := cookie.Value

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, nil
	}

	// Validation order: structure, then expiry, then fingerprint.
	if err := rec.Validate(); err != nil {
		m.log.WarnContext(ctx, "discarding malformed session record",
			logger.SessionID(id), logger.Error(err))
		if _, err := m.store.Delete(ctx, id); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		return nil, nil
	}

	if rec.IsExpired(m.now(), m.cfg.IdleTimeout) {
		if _, err := m.store.Delete(ctx, id); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		return nil, nil
	}

	if !rec.MatchesFingerprint(ip, userAgent) {
		m.log.WarnContext(ctx, "session fingerprint mismatch, discarding session",
			logger.SessionID(id), logger.ClientIP(ip),
			"stored_ip", rec.IP,
			"authenticated", rec.IsAuthenticated())
		if _, err := m.store.Delete(ctx, id); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		return nil, nil
	}

	return rec, nil
}

// createPreSession mints and persists a fresh anonymous record.
func (m *Manager) createPreSession(ctx context.Context, ip, userAgent string) (*Record, error) {
	rec, err := m.newRecord(TypePreSession, ip, userAgent, nil)
	if err != nil {
		return nil, err
	}

	id, err := m.store.Create(ctx, *rec)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	rec.ID = id
	return rec, nil
}

func (m *Manager) newRecord(typ Type, ip, userAgent string, identity *Identity) (*Record, error) {
	secret, err := csrf.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate csrf secret: %w", err)
	}

	now := m.now()
	return &Record{
		Type:       typ,
		IP:         ip,
		UserAgent:  userAgent,
		CSRFSecret: secret,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(m.cfg.AbsoluteTimeout),
		Identity:   identity,
	}, nil
}

// Scope is the per-request view of the resolved session. It keeps the
// response writer so lifecycle transitions can replace the cookie and CSRF
// header in place.
type Scope struct {
	mgr *Manager
	w   http.ResponseWriter
	r   *http.Request
	rec *Record
}

// Record returns the resolved record.
func (s *Scope) Record() *Record { return s.rec }

// ID returns the resolved record's identifier.
func (s *Scope) ID() string { return s.rec.ID }

// IsAuthenticated reports whether the request carries an identity snapshot.
func (s *Scope) IsAuthenticated() bool { return s.rec.IsAuthenticated() }

// Identity returns the identity snapshot for authenticated sessions.
func (s *Scope) Identity() (*Identity, bool) {
	if !s.rec.IsAuthenticated() {
		return nil, false
	}
	return s.rec.Identity, true
}

// CSRFSecret returns the record's anti-forgery secret. The secret must never
// reach the client; use CSRFToken for anything client-facing.
func (s *Scope) CSRFSecret() string { return s.rec.CSRFSecret }

// CSRFToken derives a fresh token from the record's secret. The same value
// is already exposed in the response header.
func (s *Scope) CSRFToken() (string, error) {
	return csrf.CreateToken(s.rec.CSRFSecret)
}

// VerifyCSRF checks a client-presented token against the record's secret.
func (s *Scope) VerifyCSRF(token string) bool {
	return token != "" && csrf.VerifyToken(s.rec.CSRFSecret, token)
}

// Promote replaces the current record with an authenticated one carrying the
// given identity snapshot. The old record is deleted and a new ID and CSRF
// secret are issued, so a pre-login cookie can never name a logged-in
// session.
func (s *Scope) Promote(ctx context.Context, identity Identity) error {
	if identity.UserID == uuid.Nil {
		return ErrInvalidRecord
	}
	return s.replace(ctx, TypeSession, &identity)
}

// Demote logs the session out: the authenticated record is deleted and the
// client continues on a fresh anonymous pre-session.
func (s *Scope) Demote(ctx context.Context) error {
	return s.replace(ctx, TypePreSession, nil)
}

// DestroyAllForUser revokes every session belonging to the user. When the
// current session is among them it is replaced by a fresh pre-session so the
// response still carries usable anti-forgery material.
func (s *Scope) DestroyAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.mgr.store.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}

	if s.rec.IsAuthenticated() && s.rec.Identity.UserID == userID {
		fresh, err := s.mgr.createPreSession(ctx, s.rec.IP, s.rec.UserAgent)
		if err != nil {
			return n, err
		}
		s.rec = fresh
		s.emitCookie()
		s.emitCSRFHeader()
	}
	return n, nil
}

// replace swaps the current record for a freshly minted one of the given
// type, deleting the old record first.
func (s *Scope) replace(ctx context.Context, typ Type, identity *Identity) error {
	fresh, err := s.mgr.newRecord(typ, s.rec.IP, s.rec.UserAgent, identity)
	if err != nil {
		return err
	}

	if _, err := s.mgr.store.Delete(ctx, s.rec.ID); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	id, err := s.mgr.store.Create(ctx, *fresh)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	fresh.ID = id

	s.rec = fresh
	s.emitCookie()
	s.emitCSRFHeader()
	return nil
}

// emitCookie queues the session cookie on the response, dropping any cookie
// for the same name queued earlier in the request. Multiple lifecycle
// transitions in one request must not emit conflicting cookies.
func (s *Scope) emitCookie() {
	cfg := s.mgr.cfg
	header := s.w.Header()

	queued := header.Values("Set-Cookie")
	header.Del("Set-Cookie")
	for _, line := range queued {
		if !strings.HasPrefix(line, cfg.CookieName+"=") {
			header.Add("Set-Cookie", line)
		}
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    s.rec.ID,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		Expires:  s.rec.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// emitCSRFHeader puts a freshly derived token in the response header.
func (s *Scope) emitCSRFHeader() {
	token, err := csrf.CreateToken(s.rec.CSRFSecret)
	if err != nil {
		s.mgr.log.ErrorContext(s.r.Context(), "failed to derive csrf token",
			logger.SessionID(s.rec.ID), logger.Error(err))
		return
	}
	s.w.Header().Set(s.mgr.cfg.CSRFResponseHeader, token)
}
