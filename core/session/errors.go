package session

import "errors"

var (
	// ErrStoreUnavailable wraps any store failure surfaced during request
	// resolution. It is never downgraded to "no session": treating an outage
	// as an anonymous visitor would silently drop authenticated state.
	ErrStoreUnavailable = errors.New("session: store unavailable")

	// ErrIDGeneration is returned when the store exhausts its attempts to
	// mint an identifier that does not collide with an existing record.
	ErrIDGeneration = errors.New("session: failed to generate unique session id")

	// ErrInvalidRecord marks a record that fails structural validation.
	ErrInvalidRecord = errors.New("session: invalid session record")

	// ErrNotAuthenticated is returned by operations that require an identity
	// snapshot when the current record is an anonymous pre-session.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrNotFound is returned when an operation targets a record that does
	// not exist or has already expired.
	ErrNotFound = errors.New("session: session not found")

	// ErrNoScope is returned by context accessors when the request never
	// passed through the manager middleware.
	ErrNoScope = errors.New("session: no session scope in request context")
)
