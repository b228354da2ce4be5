package httperr

import (
	"encoding/json"
	"net/http"
)

// Error is a structured error response with a stable machine-readable code.
// It carries no internal detail: store errors, stack traces, and connection
// strings never reach the client through this type.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// Classification of authentication and CSRF failures. Clients must be able
// to tell "log in again" apart from "retry with a fresh token".
var (
	// ErrUnauthenticated: no valid session or token for an operation that
	// requires one.
	ErrUnauthenticated = Error{
		Status:  http.StatusUnauthorized,
		Code:    "UNAUTHENTICATED",
		Message: "authentication required",
	}

	// ErrInvalidCSRF: the session or token is valid but the CSRF check failed.
	ErrInvalidCSRF = Error{
		Status:  http.StatusForbidden,
		Code:    "INVALID_CSRF_TOKEN",
		Message: "invalid or missing CSRF token",
	}

	// ErrStoreUnavailable: the session store could not be reached. Always a
	// server-side failure, never downgraded to an authentication failure.
	ErrStoreUnavailable = Error{
		Status:  http.StatusServiceUnavailable,
		Code:    "SESSION_STORE_UNAVAILABLE",
		Message: "session storage is temporarily unavailable",
	}
)

// Write renders the error as a JSON response.
func Write(w http.ResponseWriter, e Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
