package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasdev/api-gateway/pkg/blob"
	"github.com/hasdev/api-gateway/pkg/events"
	"github.com/hasdev/api-gateway/pkg/gwapi/config"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/avatars"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/oauth"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/session"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/todos"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/tools"
	"github.com/hasdev/api-gateway/pkg/gwauth"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/hasdev/api-gateway/pkg/kv"
	"github.com/uptrace/bun"
)

const TokenIssuer = "api-gateway"

type Services struct {
	Config    *config.EnvConfig
	Tokens    *gwauth.TokenManager
	Accounts  *accounts.Service
	Session   *session.Resolver
	Redirects *session.RedirectPolicy
	OAuth     *oauth.Service
	Todos     *todos.Service
	Avatars   *avatars.Service
	Preview   *tools.Previewer
	Clock     *tools.Clock
	Logger    *gwlog.Logger

	kv     kv.Store
	events events.Publisher
}

// Infra holds the connections the services are built on.
type Infra struct {
	DB     *bun.DB
	KV     kv.Store
	Blob   blob.Store // nil when object storage is disabled
	Events events.Publisher
}

// NewServices connects the optional backends named in cfg (Valkey, S3,
// Kafka), falling back to in-process implementations, and wires the
// services on top.
func NewServices(ctx context.Context, cfg *config.EnvConfig, database *bun.DB, logger *gwlog.Logger) (*Services, error) {
	infra := Infra{DB: database}

	if cfg.RedisEnabled() {
		store, err := kv.NewValkeyStore(ctx, kv.ValkeyConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		infra.KV = store
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory KV store")
		infra.KV = kv.NewMemoryStore()
	}

	if cfg.S3Enabled() {
		store, err := blob.NewS3Store(blob.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			_ = infra.KV.Close()
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			_ = infra.KV.Close()
			return nil, err
		}
		infra.Blob = store
	}

	if cfg.KafkaEnabled() {
		publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		})
		if err != nil {
			_ = infra.KV.Close()
			return nil, err
		}
		infra.Events = publisher
	} else {
		infra.Events = events.Nop{}
	}

	return New(cfg, infra, logger), nil
}

// New wires the services on already-connected infrastructure.
func New(cfg *config.EnvConfig, infra Infra, logger *gwlog.Logger) *Services {
	if infra.Events == nil {
		infra.Events = events.Nop{}
	}

	tokens := gwauth.NewTokenManager([]byte(cfg.AuthSecret), TokenIssuer, cfg.SessionTTL)
	redirects := session.NewRedirectPolicy(cfg.AllowedRedirects)

	accts := accounts.NewService(
		accounts.NewStore(infra.DB),
		gwauth.NewPasswordHasher(cfg.BcryptCost),
		tokens,
		infra.Events,
		logger.With("service", "accounts"),
	)

	oauthSvc := oauth.NewService(oauth.Config{
		Google: oauth.ProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
		},
		GitHub: oauth.ProviderConfig{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURI,
		},
		StateSecret: []byte(cfg.AuthSecret),
		StateTTL:    cfg.StateTTL,
	}, infra.KV, redirects, accts, logger.With("service", "oauth"))

	return &Services{
		Config:    cfg,
		Tokens:    tokens,
		Accounts:  accts,
		Session:   session.NewResolver(tokens, accts, infra.KV, cfg.CookieName, logger.With("service", "session")),
		Redirects: redirects,
		OAuth:     oauthSvc,
		Todos:     todos.NewService(infra.DB),
		Avatars:   avatars.NewService(infra.Blob, accts, cfg.BaseURL, logger.With("service", "avatars")),
		Preview:   tools.NewPreviewer(tools.PreviewConfig{}, logger.With("service", "preview")),
		Clock:     tools.NewClock(),
		Logger:    logger,
		kv:        infra.KV,
		events:    infra.Events,
	}
}

// Close releases the KV and event connections.
func (s *Services) Close() error {
	var errs []error
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close events: %w", err))
		}
	}
	if s.kv != nil {
		if err := s.kv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kv: %w", err))
		}
	}
	return errors.Join(errs...)
}

// EmptyServices is used when only the OpenAPI document is needed.
func EmptyServices() *Services {
	return &Services{Logger: gwlog.Discard()}
}
