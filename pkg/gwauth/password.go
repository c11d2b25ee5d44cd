package gwauth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hasdev/api-gateway/pkg/gwerr"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
)

var ErrPasswordLength = gwerr.Newf(gwerr.CodeInvalidInput,
	"password must be between %d and %d bytes", MinPasswordLength, MaxPasswordLength)

type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher returns a bcrypt hasher. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func ValidatePassword(plaintext string) error {
	if n := len(plaintext); n < MinPasswordLength || n > MaxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if err := ValidatePassword(plaintext); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed or empty hash,
// such as the one of an OAuth-only account, is a mismatch that still costs a
// full comparison.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		h.Dummy(plaintext)
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.Dummy(plaintext)
	}
	return err == nil
}

// Dummy spends roughly one comparison's worth of time so that unknown
// accounts are not distinguishable from wrong passwords by latency.
func (h *PasswordHasher) Dummy(plaintext string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
