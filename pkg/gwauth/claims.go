package gwauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token. Subject holds the
// account id and ID (jti) identifies the token for revocation.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// AccountID returns the subject claim.
func (c *SessionClaims) AccountID() string {
	return c.Subject
}

// ExpiresAtTime returns the expiry, or the zero time when unset.
func (c *SessionClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ParseUnverified decodes a session token without checking its signature.
// Clients use it to show who is logged in and when the token expires; the
// result must never be used for authorization.
func ParseUnverified(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether an unverified token is past its expiry at now.
// Malformed tokens count as expired.
func IsExpired(tokenStr string, now time.Time) bool {
	claims, err := ParseUnverified(tokenStr)
	if err != nil {
		return true
	}
	exp := claims.ExpiresAtTime()
	return exp.IsZero() || !now.Before(exp)
}
