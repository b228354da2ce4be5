package csrf

import "context"

type (
	secretContextKey struct{}
	tokenContextKey  struct{}
)

func withSecret(ctx context.Context, secret string) context.Context {
	return context.WithValue(ctx, secretContextKey{}, secret)
}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// SecretFromContext returns the CSRF secret resolved for the request.
// Handlers normally have no reason to read it; it exists for collaborators
// that derive additional tokens server-side.
func SecretFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(secretContextKey{}).(string)
	return s, ok && s != ""
}

// TokenFromContext returns the token to hand back to the client: the value
// the client presented, or a freshly derived one when none was presented.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenContextKey{}).(string)
	return t, ok && t != ""
}
