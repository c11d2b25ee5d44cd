package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hasdev/api-gateway/pkg/db/dbtest"
	"github.com/hasdev/api-gateway/pkg/events"
	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *events.Recorder) {
	t.Helper()
	recorder := &events.Recorder{}
	svc := NewService(
		NewStore(dbtest.New(t)),
		gwauth.NewPasswordHasher(bcrypt.MinCost),
		gwauth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), "gateway", time.Hour),
		recorder,
		gwlog.Discard(),
	)
	return svc, recorder
}

func TestRegisterTwiceKeepsFirstAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Register(ctx, "Ada@Example.com ", "first-password", "Ada")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", first.Account.Email)
	require.NotEmpty(t, first.Token)

	_, err = svc.Register(ctx, "ada@example.com", "second-password", "Impostor")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.True(t, gwerr.IsCode(err, gwerr.CodeAlreadyRegistered))

	stored, err := svc.Get(ctx, first.Account.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", stored.ProfileName)
	require.Equal(t, first.Account.PasswordHash, stored.PasswordHash)

	_, err = svc.Login(ctx, "ada@example.com", "first-password")
	require.NoError(t, err)
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	ctx := context.Background()
	svc, recorder := newTestService(t)

	session, err := svc.Register(ctx, "bob@example.com", "hunter2hunter2", "")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2hunter2", session.Account.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(session.Account.PasswordHash), []byte("hunter2hunter2")))

	got := recorder.Events()
	require.Len(t, got, 1)
	require.Equal(t, events.TypeAccountCreated, got[0].Type)
	require.Equal(t, events.SourcePassword, got[0].Source)
	require.Equal(t, session.Account.ID, got[0].AccountID)
}

func TestRegisterValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "not-an-email", "long-enough", "")
	require.True(t, gwerr.IsCode(err, gwerr.CodeInvalidInput))

	_, err = svc.Register(ctx, "short@example.com", "short", "")
	require.True(t, gwerr.IsCode(err, gwerr.CodeInvalidInput))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "x@x.com", "right-password", "")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "x@x.com", "wrong")
	_, unknownEmail := svc.Login(ctx, "nouser@x.com", "anything")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginOAuthOnlyAccountFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpsertIdentity(ctx, Identity{Provider: "github", ProviderID: "42", Email: "gh@example.com", Name: "GH"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "gh@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpsertIdentityReusesAccountWithoutRefresh(t *testing.T) {
	ctx := context.Background()
	svc, recorder := newTestService(t)

	first, err := svc.UpsertIdentity(ctx, Identity{Provider: "google", ProviderID: "sub-1", Email: "g@example.com", Name: "Original"})
	require.NoError(t, err)

	second, err := svc.UpsertIdentity(ctx, Identity{Provider: "google", ProviderID: "sub-1", Email: "g@example.com", Name: "Renamed"})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Original", second.ProfileName)
	require.Len(t, recorder.Events(), 1)
	require.Equal(t, events.SourceGoogle, recorder.Events()[0].Source)
}

func TestUpsertIdentityAllowsEmptyEmails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.UpsertIdentity(ctx, Identity{Provider: "github", ProviderID: "1"})
	require.NoError(t, err)
	b, err := svc.UpsertIdentity(ctx, Identity{Provider: "github", ProviderID: "2"})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
	require.Empty(t, a.Email)
}

func TestUpsertIdentityEmailConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "taken@example.com", "password123", "")
	require.NoError(t, err)

	_, err = svc.UpsertIdentity(ctx, Identity{Provider: "github", ProviderID: "7", Email: "Taken@example.com"})
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestPublishFailureDoesNotFailRegistration(t *testing.T) {
	ctx := context.Background()
	svc, recorder := newTestService(t)
	recorder.Err = errors.New("broker down")

	_, err := svc.Register(ctx, "kafka@example.com", "password123", "")
	require.NoError(t, err)
}

func TestPromoteAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(ctx, email, "password123", "")
		require.NoError(t, err)
	}

	promoted, err := svc.Promote(ctx, "B@example.com", true)
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin)

	stored, err := svc.Get(ctx, promoted.ID)
	require.NoError(t, err)
	require.True(t, stored.IsAdmin)

	page, total, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 1)

	_, err = svc.Promote(ctx, "missing@example.com", true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}

	for _, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		_, err := svc.Register(ctx, email, "password123", "")
		require.NoError(t, err)
	}

	page, total, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 3)
	require.Equal(t, "third@example.com", page[0].Email)
	require.Equal(t, "second@example.com", page[1].Email)
	require.Equal(t, "first@example.com", page[2].Email)
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}
