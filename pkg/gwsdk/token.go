package gwsdk

import (
	"errors"
	"strings"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/zalando/go-keyring"
)

const keyringService = "api-gateway"

// normalizeKey turns a base URL into a stable keyring entry name, so
// https://example.com/ and https://Example.com share one token.
func normalizeKey(baseURL string) string {
	s := strings.TrimSpace(baseURL)
	s = strings.TrimRight(s, "/")
	return strings.ToLower(s)
}

// SaveToken stores the session token for baseURL in the OS keyring.
func SaveToken(baseURL, token string) error {
	return keyring.Set(keyringService, normalizeKey(baseURL), token)
}

// LoadToken returns the stored token, or "" when none is stored.
func LoadToken(baseURL string) (string, error) {
	token, err := keyring.Get(keyringService, normalizeKey(baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// DeleteToken removes the stored token. Deleting a missing token is not an
// error.
func DeleteToken(baseURL string) error {
	err := keyring.Delete(keyringService, normalizeKey(baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// IsTokenExpired reports whether token expires within skew from now.
// The signature is not checked.
func IsTokenExpired(token string, skew time.Duration) bool {
	return gwauth.IsExpired(token, time.Now().Add(skew))
}

// TokenExpiry returns the expiry of token without checking its signature.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := gwauth.ParseUnverified(token)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAtTime(), nil
}
