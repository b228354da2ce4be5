package session

import (
	"time"

	"github.com/google/uuid"
)

// Type discriminates the two lifecycle phases of a record.
type Type string

const (
	// TypePreSession is an anonymous record carrying anti-forgery material
	// only. Every visitor gets one before authenticating.
	TypePreSession Type = "pre_session"

	// TypeSession is an authenticated record carrying an identity snapshot.
	TypeSession Type = "session"
)

// Identity is the snapshot of the authenticated principal captured at login
// time. It is denormalized into the record on purpose: reads never touch the
// user store, and a later profile change does not retroactively alter what
// the session was issued for.
type Identity struct {
	UserID    uuid.UUID  `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Record is a single session store entry. Its ID doubles as the opaque
// cookie value, so a record is never reused across authentication boundary
// crossings: promotion and demotion always replace the whole record.
type Record struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CSRFSecret string    `json:"csrf_secret"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Identity   *Identity `json:"identity,omitempty"`
}

// IsAuthenticated reports whether the record carries an identity snapshot.
func (r *Record) IsAuthenticated() bool {
	return r.Type == TypeSession && r.Identity != nil
}

// Validate reports whether the record is well-formed: required material is
// present and the type discriminant agrees with the identity payload.
func (r *Record) Validate() error {
	switch {
	case r.ID == "":
		return ErrInvalidRecord
	case r.CSRFSecret == "":
		return ErrInvalidRecord
	case r.ExpiresAt.IsZero():
		return ErrInvalidRecord
	case r.Type == TypeSession && (r.Identity == nil || r.Identity.UserID == uuid.Nil):
		return ErrInvalidRecord
	case r.Type == TypePreSession && r.Identity != nil:
		return ErrInvalidRecord
	case r.Type != TypeSession && r.Type != TypePreSession:
		return ErrInvalidRecord
	}
	return nil
}

// IsExpired reports whether the record has outlived either its absolute
// deadline or the idle window since it was last seen.
func (r *Record) IsExpired(now time.Time, idleTimeout time.Duration) bool {
	if !now.Before(r.ExpiresAt) {
		return true
	}
	if idleTimeout > 0 && !now.Before(r.LastSeenAt.Add(idleTimeout)) {
		return true
	}
	return false
}

// MatchesFingerprint reports whether the request origin matches the one the
// record was issued to. Both components must match exactly.
func (r *Record) MatchesFingerprint(ip, userAgent string) bool {
	return r.IP == ip && r.UserAgent == userAgent
}
