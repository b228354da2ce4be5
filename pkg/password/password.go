package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// minLength is the minimum accepted password length. Shorter inputs are
// rejected before any hashing work is done.
const minLength = 8

var (
	// ErrTooShort is returned when the password is below the minimum length.
	ErrTooShort = errors.New("password: too short")

	// ErrTooLong is returned when the password exceeds bcrypt's 72-byte input limit.
	ErrTooLong = errors.New("password: exceeds 72 bytes")

	// ErrMismatch is returned when a password does not match the stored hash.
	ErrMismatch = errors.New("password: mismatch")
)

// Hash derives a bcrypt hash from a plaintext password.
func Hash(password string) (string, error) {
	if len(password) < minLength {
		return "", ErrTooShort
	}
	if len(password) > 72 {
		return "", ErrTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares a plaintext password against a stored bcrypt hash.
// Returns ErrMismatch when the password is wrong; other errors indicate a
// malformed hash.
func Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
