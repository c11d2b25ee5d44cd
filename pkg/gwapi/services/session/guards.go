package session

import "context"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the caller, or nil for Anonymous.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// RequireAuthenticated returns ErrUnauthorized for Anonymous callers.
func RequireAuthenticated(ctx context.Context) (*Principal, error) {
	p := FromContext(ctx)
	if p == nil {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// RequireAdmin returns ErrUnauthorized for Anonymous callers and
// ErrForbidden for authenticated callers without admin rights.
func RequireAdmin(ctx context.Context) (*Principal, error) {
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin {
		return nil, ErrForbidden
	}
	return p, nil
}
