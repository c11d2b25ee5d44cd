// Package oauth runs the authorization-code flow against Google and GitHub
// and maps the provider profile onto a local account.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/session"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/hasdev/api-gateway/pkg/kv"
	"golang.org/x/oauth2"
)

const (
	stateIssuer   = "gateway-oauth"
	kvPrefixState = "oauth:state:"
)

var (
	ErrNotConfigured       = gwerr.New(gwerr.CodeNotConfigured, errors.New("oauth provider not configured"))
	ErrInvalidState        = gwerr.New(gwerr.CodeInvalidState, errors.New("invalid or expired state"))
	ErrTokenExchangeFailed = gwerr.New(gwerr.CodeTokenExchangeFailed, errors.New("token exchange failed"))
	ErrProfileFetchFailed  = gwerr.New(gwerr.CodeProfileFetchFailed, errors.New("profile fetch failed"))
)

// StateClaims is the signed, short-lived JWT used as the OAuth state
// parameter. StateID is also stored in kv so a state can be used once.
type StateClaims struct {
	Provider string `json:"provider"`
	Redirect string `json:"redirect,omitempty"`
	StateID  string `json:"state_id"`
	jwt.RegisteredClaims
}

type Config struct {
	Google ProviderConfig
	GitHub ProviderConfig

	// StateSecret signs state tokens.
	StateSecret []byte
	StateTTL    time.Duration

	// HTTPClient is used for token exchange and profile calls.
	HTTPClient *http.Client
}

type Service struct {
	providers  map[string]*provider
	secret     []byte
	stateTTL   time.Duration
	kv         kv.Store
	redirects  *session.RedirectPolicy
	accounts   *accounts.Service
	httpClient *http.Client
	logger     *gwlog.Logger
	now        func() time.Time
}

// Result is the outcome of a successful callback.
type Result struct {
	Session  *accounts.Session
	Redirect string
}

func NewService(cfg Config, store kv.Store, redirects *session.RedirectPolicy, accts *accounts.Service, logger *gwlog.Logger) *Service {
	svc := &Service{
		providers:  make(map[string]*provider),
		secret:     cfg.StateSecret,
		stateTTL:   cfg.StateTTL,
		kv:         store,
		redirects:  redirects,
		accounts:   accts,
		httpClient: cfg.HTTPClient,
		logger:     logger,
		now:        time.Now,
	}
	if svc.stateTTL <= 0 {
		svc.stateTTL = 10 * time.Minute
	}
	if svc.httpClient == nil {
		svc.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	for name, pc := range map[string]ProviderConfig{ProviderGoogle: cfg.Google, ProviderGitHub: cfg.GitHub} {
		if !pc.enabled() {
			logger.Info("oauth provider not configured", "provider", name)
			continue
		}
		svc.providers[name] = newProvider(name, pc)
	}
	return svc
}

// Enabled reports whether provider has client credentials.
func (s *Service) Enabled(provider string) bool {
	_, ok := s.providers[provider]
	return ok
}

// Start returns the provider authorize URL carrying a fresh state token.
func (s *Service) Start(ctx context.Context, provider, redirect string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrNotConfigured
	}
	if err := s.redirects.Check(redirect); err != nil {
		return "", err
	}

	state, err := s.GenerateState(ctx, provider, redirect)
	if err != nil {
		return "", err
	}
	return p.oauth.AuthCodeURL(state, p.authParams...), nil
}

// GenerateState signs a state token and records its id for single use.
func (s *Service) GenerateState(ctx context.Context, provider, redirect string) (string, error) {
	stateID, err := generateRandomString(32)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := StateClaims{
		Provider: provider,
		Redirect: redirect,
		StateID:  stateID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.stateTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}

	if err := s.kv.Set(ctx, kvPrefixState+stateID, []byte(provider), s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	return signed, nil
}

// ValidateState checks the signature, expiry and provider of a state token
// and consumes it. A second use of the same state fails.
func (s *Service) ValidateState(ctx context.Context, provider, state string) (*StateClaims, error) {
	claims := &StateClaims{}
	parsed, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(stateIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidState
	}
	if claims.Provider != provider || claims.StateID == "" {
		return nil, ErrInvalidState
	}

	if _, err := s.kv.GetDel(ctx, kvPrefixState+claims.StateID); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to consume state: %w", err)
	}
	return claims, nil
}

// Callback completes the flow: validate state, exchange the code, fetch the
// profile, upsert the account and issue a session. Nothing is written unless
// both provider calls succeed.
func (s *Service) Callback(ctx context.Context, provider, code, state string) (*Result, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrNotConfigured
	}

	claims, err := s.ValidateState(ctx, provider, state)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth token exchange failed", "provider", provider, "error", err)
		return nil, ErrTokenExchangeFailed
	}

	identity, err := p.profile(ctx, p.oauth.Client(ctx, token), p.apiBase)
	if err != nil {
		s.logger.Warn("oauth profile fetch failed", "provider", provider, "error", err)
		return nil, ErrProfileFetchFailed
	}

	account, err := s.accounts.UpsertIdentity(ctx, *identity)
	if err != nil {
		return nil, err
	}

	sess, err := s.accounts.IssueSession(account)
	if err != nil {
		return nil, err
	}
	return &Result{Session: sess, Redirect: claims.Redirect}, nil
}

func generateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
