package avatars

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hasdev/api-gateway/pkg/blob"
	"github.com/hasdev/api-gateway/pkg/db/dbtest"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func setup(t *testing.T, store blob.Store) (*Service, *accounts.Service, string) {
	t.Helper()
	accts := accounts.NewService(
		accounts.NewStore(dbtest.New(t)),
		gwauth.NewPasswordHasher(bcrypt.MinCost),
		gwauth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), "gateway", time.Hour),
		nil,
		gwlog.Discard(),
	)
	session, err := accts.Register(context.Background(), "pic@example.com", "password123", "Pic")
	require.NoError(t, err)

	return NewService(store, accts, "https://api.example.com/", gwlog.Discard()), accts, session.Account.ID
}

func TestUploadStoresImageAndUpdatesProfile(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore("https://blobs.example.com")
	svc, accts, id := setup(t, store)

	account, err := svc.Upload(ctx, id, "image/png", pngBytes)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api/users/"+id+"/avatar", account.ProfilePicture)

	stored, err := accts.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, account.ProfilePicture, stored.ProfilePicture)

	obj, err := store.Stat(ctx, Key(id))
	require.NoError(t, err)
	require.Equal(t, "image/png", obj.ContentType)

	r, err := store.Open(Key(id))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, pngBytes, data)

	link, err := svc.URL(ctx, id)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://blobs.example.com/avatars/"+id+"?"), link)
}

func TestUploadRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, id := setup(t, blob.NewMemoryStore("https://blobs.example.com"))

	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        error
	}{
		{"empty", "image/png", nil, ErrEmpty},
		{"too large", "image/png", append(pngBytes, make([]byte, MaxAvatarBytes)...), ErrTooLarge},
		{"declared text", "text/plain", pngBytes, ErrNotAnImage},
		{"html disguised as image", "image/png", []byte("<html><script>alert(1)</script></html>"), ErrNotAnImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, id, tt.contentType, tt.data)
			require.ErrorIs(t, err, tt.want)
			require.True(t, gwerr.IsCode(err, gwerr.CodeInvalidInput))
		})
	}
}

func TestUploadUnknownAccount(t *testing.T) {
	svc, _, _ := setup(t, blob.NewMemoryStore("https://blobs.example.com"))
	_, err := svc.Upload(context.Background(), "00000000-0000-0000-0000-000000000000", "image/png", pngBytes)
	require.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestURLMissingAvatar(t *testing.T) {
	svc, _, id := setup(t, blob.NewMemoryStore("https://blobs.example.com"))
	_, err := svc.URL(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNotConfigured(t *testing.T) {
	svc, _, id := setup(t, nil)
	require.False(t, svc.Configured())

	_, err := svc.Upload(context.Background(), id, "image/png", pngBytes)
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.URL(context.Background(), id)
	require.True(t, gwerr.IsCode(err, gwerr.CodeNotConfigured))
}
