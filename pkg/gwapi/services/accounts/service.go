// Package accounts registers, authenticates and looks up accounts, for both
// password and OAuth sign-in.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/hasdev/api-gateway/pkg/events"
	"github.com/hasdev/api-gateway/pkg/gwapi/utils"
	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
)

var (
	ErrAlreadyRegistered  = gwerr.New(gwerr.CodeAlreadyRegistered, errors.New("email already registered"))
	ErrInvalidCredentials = gwerr.New(gwerr.CodeInvalidCredentials, errors.New("invalid email or password"))
	ErrEmailInUse         = gwerr.New(gwerr.CodeEmailInUse, errors.New("email belongs to another account"))
	ErrNotFound           = gwerr.New(gwerr.CodeNotFound, errors.New("account not found"))
	ErrInvalidEmail       = gwerr.New(gwerr.CodeInvalidInput, errors.New("invalid email address"))
)

// Session is a freshly issued token together with the account it belongs to.
type Session struct {
	Token   string
	Claims  *gwauth.SessionClaims
	Account *models.Account
}

// Identity is a profile returned by an OAuth provider.
type Identity struct {
	Provider      string
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

type Service struct {
	store  *Store
	hasher *gwauth.PasswordHasher
	tokens *gwauth.TokenManager
	events events.Publisher
	logger *gwlog.Logger
	now    func() time.Time
}

func NewService(
	store *Store,
	hasher *gwauth.PasswordHasher,
	tokens *gwauth.TokenManager,
	publisher events.Publisher,
	logger *gwlog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		events: publisher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// Register creates a password account and issues a session for it.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := gwauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, errNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		ProfileName:  strings.TrimSpace(name),
		CreatedAt:    s.now(),
	}
	if err := s.store.Insert(ctx, account); err != nil {
		// the pre-check above races with concurrent registrations
		if errors.Is(err, errDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	s.publishCreated(ctx, account, events.SourcePassword)
	return s.IssueSession(account)
}

// Login checks a password. Unknown emails and wrong passwords return the same
// error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errNoRows) {
			s.hasher.Dummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.IssueSession(account)
}

// UpsertIdentity returns the account bound to the provider identity,
// creating it on first sign-in. Existing accounts are returned unchanged.
func (s *Service) UpsertIdentity(ctx context.Context, id Identity) (*models.Account, error) {
	if id.Provider == "" || id.ProviderID == "" {
		return nil, fmt.Errorf("upsert identity: provider and provider id are required")
	}

	existing, err := s.store.GetByProvider(ctx, id.Provider, id.ProviderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errNoRows) {
		return nil, err
	}

	account := &models.Account{
		ID:            uuid.NewString(),
		Email:         NormalizeEmail(id.Email),
		EmailVerified: id.EmailVerified,
		ProfileName:   id.Name,
		AvatarURL:     id.AvatarURL,
		Provider:      id.Provider,
		ProviderID:    id.ProviderID,
		CreatedAt:     s.now(),
	}
	if err := s.store.Insert(ctx, account); err != nil {
		if !errors.Is(err, errDuplicate) {
			return nil, err
		}
		// Either a concurrent callback created the same identity, or the
		// email is held by a different account.
		existing, lookupErr := s.store.GetByProvider(ctx, id.Provider, id.ProviderID)
		if lookupErr == nil {
			return existing, nil
		}
		if errors.Is(lookupErr, errNoRows) {
			return nil, ErrEmailInUse
		}
		return nil, lookupErr
	}

	s.publishCreated(ctx, account, id.Provider)
	return account, nil
}

// IssueSession signs a session token for account.
func (s *Service) IssueSession(account *models.Account) (*Session, error) {
	token, claims, err := s.tokens.IssueSession(account.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Claims: claims, Account: account}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.store.GetByID(ctx, id)
	if errors.Is(err, errNoRows) {
		return nil, ErrNotFound
	}
	return account, err
}

// List returns one page (1-based) of accounts and the total count.
func (s *Service) List(ctx context.Context, page, limit int) ([]models.Account, int, error) {
	page, limit = utils.ClampPage(page, limit)
	return s.store.List(ctx, (page-1)*limit, limit)
}

// Promote grants or revokes admin rights for the account with email.
func (s *Service) Promote(ctx context.Context, email string, admin bool) (*models.Account, error) {
	account, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.store.SetAdmin(ctx, account.ID, admin); err != nil {
		return nil, err
	}
	account.IsAdmin = admin
	return account, nil
}

func (s *Service) SetProfilePicture(ctx context.Context, id, url string) (*models.Account, error) {
	if err := s.store.SetProfilePicture(ctx, id, url); err != nil {
		if errors.Is(err, errNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) publishCreated(ctx context.Context, account *models.Account, source string) {
	event := events.AccountEvent{
		Type:       events.TypeAccountCreated,
		AccountID:  account.ID,
		Email:      account.Email,
		Source:     source,
		OccurredAt: account.CreatedAt,
	}
	if err := s.events.PublishAccount(ctx, event); err != nil {
		s.logger.Warn("failed to publish account event", "account", account.ID, "source", source, "error", err)
	}
}
