package redis

import "errors"

var (
	// ErrInvalidConnectionURL is returned when the connection URL cannot be parsed.
	ErrInvalidConnectionURL = errors.New("failed to parse redis connection URL")

	// ErrNotReady is returned when the server does not accept connections
	// within the configured retry budget.
	ErrNotReady = errors.New("redis did not become ready within the given time period")

	// ErrHealthcheckFailed is returned by the healthcheck probe on ping failure.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
