package pg

import "errors"

var (
	// ErrInvalidConnectionString is returned when the connection string cannot be parsed.
	ErrInvalidConnectionString = errors.New("failed to parse postgres connection string")

	// ErrNotReady is returned when the database does not accept connections
	// within the configured retry budget.
	ErrNotReady = errors.New("postgres did not become ready within the given time period")

	// ErrHealthcheckFailed is returned by the healthcheck probe on ping failure.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")

	// ErrMigrationFailed wraps any failure while applying schema migrations.
	ErrMigrationFailed = errors.New("failed to apply migrations")
)
