package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	// secretLength is 32 bytes (256 bits) of entropy per secret.
	secretLength = 32
	// saltLength is the per-token salt size; each derived token is unique
	// even for the same secret.
	saltLength = 12
)

// GenerateSecret creates a new cryptographically random CSRF secret,
// base64url-encoded without padding.
func GenerateSecret() (string, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrSecretGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateToken derives a presentable token from a secret. The token is safe to
// expose to client-side script; the secret it was derived from is not
// recoverable. Each call produces a distinct token.
func CreateToken(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(salt)
	return encoded + "." + deriveHash(encoded, secret), nil
}

// VerifyToken reports whether token was derived from secret. The comparison
// is constant-time.
func VerifyToken(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}

	salt, _, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}

	expected := salt + "." + deriveHash(salt, secret)
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// deriveHash computes the one-way token body as HMAC-SHA256(secret, salt).
func deriveHash(salt, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
