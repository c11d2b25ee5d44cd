package session

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
)

// Middleware resolves the caller once per request and stores it in the
// operation context for the guards.
func (r *Resolver) Middleware() func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		req, _ := humachi.Unwrap(ctx)

		if p := r.Resolve(ctx.Context(), req); p != nil {
			ctx = huma.WithValue(ctx, principalKey, p)
		}

		next(ctx)
	}
}
