package session

import "context"

type scopeContextKey struct{}

func withScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// FromContext returns the session scope stored by the manager middleware.
func FromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return scope, ok
}

// IdentityFromContext returns the identity snapshot when the request carries
// an authenticated session.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	scope, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return scope.Identity()
}
