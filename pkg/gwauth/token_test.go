package gwauth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(testSecret, "gateway", time.Hour).WithClock(fixedClock(now))

	token, issued, err := m.Issue("acct-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatal("expected a jti on issued claims")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}
	if claims.AccountID() != "acct-1" {
		t.Fatalf("expected sub acct-1, got %q", claims.AccountID())
	}
	if claims.ID != issued.ID {
		t.Fatalf("jti mismatch: %q vs %q", claims.ID, issued.ID)
	}
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(testSecret, "gateway", time.Hour).WithClock(fixedClock(now))

	token, _, err := m.Issue("acct-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.WithClock(fixedClock(now.Add(2 * time.Minute)))
	_, err = m.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
	if !gwerr.IsCode(err, gwerr.CodeExpiredToken) {
		t.Fatalf("expected expired_token code, got %s", gwerr.CodeOf(err))
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	m := NewTokenManager(testSecret, "gateway", time.Hour)
	token, _, err := m.IssueSession("acct-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	dot := strings.LastIndex(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(token[dot+1:])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	for i := range sig {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), sig...)
			tampered[i] ^= 1 << bit
			candidate := token[:dot+1] + base64.RawURLEncoding.EncodeToString(tampered)
			if _, err := m.Verify(candidate); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("signature byte %d bit %d flipped: expected ErrInvalidToken, got %v", i, bit, err)
			}
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Now()
	m := NewTokenManager(testSecret, "gateway", time.Hour)

	other := NewTokenManager([]byte("another-secret-another-secret-xx"), "gateway", time.Hour)
	foreign, _, _ := other.IssueSession("acct-1")

	wrongIssuer, _, _ := NewTokenManager(testSecret, "someone-else", time.Hour).IssueSession("acct-1")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "acct-1",
		Issuer:    "gateway",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "acct-1", Issuer: "gateway"})
	noExpToken, _ := noExp.SignedString(testSecret)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "gateway",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	noSubToken, _ := noSub.SignedString(testSecret)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"foreign key":  foreign,
		"wrong issuer": wrongIssuer,
		"alg none":     noneToken,
		"missing exp":  noExpToken,
		"missing sub":  noSubToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(testSecret, "gateway", time.Hour).WithClock(fixedClock(now))
	token, _, _ := m.IssueSession("acct-1")

	if IsExpired(token, now) {
		t.Fatal("fresh token reported expired")
	}
	if !IsExpired(token, now.Add(2*time.Hour)) {
		t.Fatal("old token reported valid")
	}
	if !IsExpired("garbage", now) {
		t.Fatal("garbage token reported valid")
	}
}
