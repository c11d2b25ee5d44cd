// Package session resolves the caller of a request from its session token and
// enforces the authentication guards.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/hasdev/api-gateway/pkg/kv"
)

const kvPrefixRevoked = "session:revoked:"

var (
	ErrUnauthorized = gwerr.New(gwerr.CodeUnauthorized, errors.New("authentication required"))
	ErrForbidden    = gwerr.New(gwerr.CodeForbidden, errors.New("admin access required"))
)

// Principal is an authenticated caller. A nil *Principal means Anonymous.
type Principal struct {
	AccountID string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// AccountLookup finds accounts by id.
type AccountLookup interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

type Resolver struct {
	tokens     *gwauth.TokenManager
	accounts   AccountLookup
	kv         kv.Store
	cookieName string
	logger     *gwlog.Logger
}

func NewResolver(tokens *gwauth.TokenManager, accounts AccountLookup, store kv.Store, cookieName string, logger *gwlog.Logger) *Resolver {
	return &Resolver{
		tokens:     tokens,
		accounts:   accounts,
		kv:         store,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (r *Resolver) CookieName() string {
	return r.cookieName
}

// TokenFromRequest returns the session token from the cookie, or else from
// an "Authorization: Bearer" header. The cookie always wins.
func TokenFromRequest(req *http.Request, cookieName string) string {
	if c, err := req.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(req.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// Resolve never fails: a missing, invalid, expired or revoked token, or a
// deleted account, all resolve to Anonymous (nil).
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) *Principal {
	token := TokenFromRequest(req, r.cookieName)
	if token == "" {
		return nil
	}
	return r.ResolveToken(ctx, token)
}

func (r *Resolver) ResolveToken(ctx context.Context, token string) *Principal {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		r.logger.Debug("session token rejected", "error", err)
		return nil
	}

	if r.isRevoked(ctx, claims.ID) {
		r.logger.Debug("session token revoked", "jti", claims.ID)
		return nil
	}

	account, err := r.accounts.Get(ctx, claims.AccountID())
	if err != nil {
		if !gwerr.IsCode(err, gwerr.CodeNotFound) {
			r.logger.Warn("failed to load session account", "account", claims.AccountID(), "error", err)
		}
		return nil
	}

	return &Principal{
		AccountID: account.ID,
		IsAdmin:   account.IsAdmin,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	}
}

func (r *Resolver) isRevoked(ctx context.Context, jti string) bool {
	if jti == "" || r.kv == nil {
		return false
	}
	_, err := r.kv.Get(ctx, kvPrefixRevoked+jti)
	if err == nil {
		return true
	}
	if !errors.Is(err, kv.ErrNotFound) {
		// fail closed when the revocation list is unreachable
		r.logger.Warn("failed to check session revocation", "error", err)
		return true
	}
	return false
}

// Revoke adds the principal's token to the revocation list until it expires.
func (r *Resolver) Revoke(ctx context.Context, p *Principal) error {
	if p == nil || p.TokenID == "" || r.kv == nil {
		return nil
	}
	ttl := r.tokens.TTL()
	if !p.ExpiresAt.IsZero() {
		ttl = p.ExpiresAt.Sub(r.tokens.Now())
	}
	if ttl <= 0 {
		return nil
	}
	return r.kv.Set(ctx, kvPrefixRevoked+p.TokenID, []byte("1"), ttl)
}
