package csrf

import "errors"

var (
	// ErrSecretGeneration is returned when random secret generation fails.
	ErrSecretGeneration = errors.New("csrf: failed to generate secret")

	// ErrTokenGeneration is returned when token derivation fails.
	ErrTokenGeneration = errors.New("csrf: failed to generate token")

	// ErrMissingSigningKey is returned when constructing a guard without a signing key.
	ErrMissingSigningKey = errors.New("csrf: signing key is required")

	// ErrSigningKeyTooShort is returned when the signing key has less than 32 bytes.
	ErrSigningKeyTooShort = errors.New("csrf: signing key must be at least 32 bytes")

	// ErrMissingSecret is returned when reissuing a token on a request that
	// never resolved a CSRF secret.
	ErrMissingSecret = errors.New("csrf: no secret resolved for request")
)
