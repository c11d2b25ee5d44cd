// Package gwauth issues and verifies session tokens and hashes passwords.
// Signing keys and costs are passed in by the caller; nothing here reads the
// environment.
package gwauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var (
	ErrInvalidToken = gwerr.New(gwerr.CodeInvalidToken, errors.New("invalid token"))
	ErrExpiredToken = gwerr.New(gwerr.CodeExpiredToken, errors.New("token expired"))
)

// TokenManager signs HS256 session tokens with a shared secret.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for iat and expiry checks.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// TTL is the lifetime of tokens issued by IssueSession.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Now returns the manager's current time.
func (m *TokenManager) Now() time.Time {
	return m.now()
}

// Issue signs a token for accountID that expires at expiresAt.
func (m *TokenManager) Issue(accountID string, expiresAt time.Time) (string, *SessionClaims, error) {
	if accountID == "" {
		return "", nil, errors.New("issue token: empty account id")
	}

	now := m.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// IssueSession signs a token that expires after the configured TTL.
func (m *TokenManager) IssueSession(accountID string) (string, *SessionClaims, error) {
	return m.Issue(accountID, m.now().Add(m.ttl))
}

// Verify checks the signature, algorithm, issuer and expiry of tokenStr.
// It returns ErrExpiredToken for a well-signed token past its expiry and
// ErrInvalidToken for everything else.
func (m *TokenManager) Verify(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
