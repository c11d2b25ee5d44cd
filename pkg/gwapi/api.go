package gwapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/hasdev/api-gateway/pkg/gwapi/config"
)

const (
	Title   = "API Gateway"
	Version = "1.0.0"

	authPrefix = "/api/auth/"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

// NewApi builds the router and the huma API on top of it. cfg may be nil
// when only the OpenAPI document is needed.
func NewApi(cfg *config.EnvConfig) *Api {
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	cookieName := "token"
	if cfg != nil {
		cookieName = cfg.CookieName
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins(cfg),
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		if cfg.AuthRateLimit > 0 {
			router.Use(limitAuth(cfg.AuthRateLimit, time.Minute))
		}
	}

	humaConfig := huma.DefaultConfig(Title, Version)
	// keep response bodies free of $schema links
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "Session token from /api/auth/login or an OAuth callback",
		},
		"cookie": {
			Type:        "apiKey",
			In:          "cookie",
			Name:        cookieName,
			Description: "Session cookie set by login and OAuth callbacks",
		},
	}

	api := humachi.New(router, humaConfig)

	return &Api{Api: api, Router: router}
}

func allowedOrigins(cfg *config.EnvConfig) []string {
	origins := []string{strings.TrimRight(cfg.BaseURL, "/")}
	return append(origins, cfg.AllowedRedirects...)
}

// limitAuth applies a per-IP request limit to the /api/auth endpoints only.
func limitAuth(requests int, window time.Duration) func(http.Handler) http.Handler {
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, authPrefix) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
