// Package avatars stores account profile pictures in object storage.
package avatars

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/hasdev/api-gateway/pkg/blob"
	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
)

const (
	MaxAvatarBytes = 2 << 20
	keyPrefix      = "avatars/"
	presignExpiry  = 15 * time.Minute
)

var (
	ErrNotConfigured = gwerr.New(gwerr.CodeNotConfigured, errors.New("object storage is not configured"))
	ErrNotFound      = gwerr.New(gwerr.CodeNotFound, errors.New("avatar not found"))
	ErrTooLarge      = gwerr.New(gwerr.CodeInvalidInput, fmt.Errorf("avatar exceeds %d bytes", MaxAvatarBytes))
	ErrNotAnImage    = gwerr.New(gwerr.CodeInvalidInput, errors.New("avatar must be an image"))
	ErrEmpty         = gwerr.New(gwerr.CodeInvalidInput, errors.New("avatar body is empty"))
)

type Service struct {
	store    blob.Store
	accounts *accounts.Service
	baseURL  string
	logger   *gwlog.Logger
}

// NewService returns a service that reports ErrNotConfigured on every call
// when store is nil.
func NewService(store blob.Store, accts *accounts.Service, baseURL string, logger *gwlog.Logger) *Service {
	return &Service{
		store:    store,
		accounts: accts,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *Service) Configured() bool { return s.store != nil }

func Key(accountID string) string { return keyPrefix + accountID }

// PublicURL is the API address that redirects to the stored avatar.
func (s *Service) PublicURL(accountID string) string {
	return s.baseURL + "/api/users/" + accountID + "/avatar"
}

// Upload stores data as the account's avatar and points its profile
// picture at PublicURL.
func (s *Service) Upload(ctx context.Context, accountID, contentType string, data []byte) (*models.Account, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrTooLarge
	}

	declared, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(declared, "image/") {
		return nil, ErrNotAnImage
	}
	// the sniffed type is what gets served back
	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return nil, ErrNotAnImage
	}

	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, Key(accountID), bytes.NewReader(data), int64(len(data)), sniffed); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	s.logger.Info("avatar uploaded", "account", accountID, "bytes", len(data), "type", sniffed)

	return s.accounts.SetProfilePicture(ctx, accountID, s.PublicURL(accountID))
}

// URL returns a short-lived download link for the account's avatar.
func (s *Service) URL(ctx context.Context, accountID string) (string, error) {
	if s.store == nil {
		return "", ErrNotConfigured
	}
	link, err := s.store.PresignedURL(ctx, Key(accountID), presignExpiry)
	if errors.Is(err, blob.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("presign avatar: %w", err)
	}
	return link, nil
}
