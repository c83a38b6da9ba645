package rbac

import "context"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal attaches the principal resolved for a request to ctx.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// FromContext returns the principal resolved for this request, or Anonymous
// when none was resolved.
func FromContext(ctx context.Context) Principal {
	principal, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Anonymous
	}
	return principal
}
