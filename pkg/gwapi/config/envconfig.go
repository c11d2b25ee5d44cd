package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/gwapi/utils"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	BaseURL     string `envconfig:"BASE_URL" required:"true"`
	AuthSecret  string `envconfig:"AUTH_SECRET" required:"true"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	StateTTL         time.Duration `envconfig:"STATE_TTL" default:"10m"`
	BcryptCost       int           `envconfig:"BCRYPT_COST" default:"10"`
	CookieName       string        `envconfig:"COOKIE_NAME" default:"token"`
	AllowedRedirects []string      `envconfig:"ALLOWED_REDIRECTS"`
	AuthRateLimit    int           `envconfig:"AUTH_RATE_LIMIT" default:"30"`
	StaticDir        string        `envconfig:"STATIC_DIR"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"gateway"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"gateway"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBPath     string `envconfig:"DB_PATH" default:"gateway.db"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI"`
	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURI  string `envconfig:"GITHUB_REDIRECT_URI"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"avatars"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"true"`

	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic    string   `envconfig:"KAFKA_TOPIC" default:"account-events"`
	KafkaUsername string   `envconfig:"KAFKA_USERNAME"`
	KafkaPassword string   `envconfig:"KAFKA_PASSWORD"`
}

// ValidateEnv loads the configuration from the environment (and .env in
// development) and validates it.
func ValidateEnv() (*EnvConfig, error) {
	if utils.IsDev() {
		if err := godotenv.Load(); err != nil {
			log.Println("ℹ No .env file found")
		} else {
			log.Println("✓ Loaded .env file")
		}
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Validate collects every problem with the configuration into one error.
func (c *EnvConfig) Validate() error {
	var errors []string

	if len(c.AuthSecret) < 32 {
		errors = append(errors, "  ❌ AUTH_SECRET must be at least 32 characters")
	}

	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		errors = append(errors, "  ❌ BASE_URL must be a valid URL")
	}

	if c.SessionTTL <= 0 {
		errors = append(errors, "  ❌ SESSION_TTL must be positive")
	}
	if c.StateTTL <= 0 {
		errors = append(errors, "  ❌ STATE_TTL must be positive")
	}

	if c.CookieName == "" {
		errors = append(errors, "  ❌ COOKIE_NAME must not be empty")
	}

	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errors = append(errors, "  ❌ DB_DRIVER must be postgres or sqlite")
	}

	if (c.GoogleClientID != "") != (c.GoogleClientSecret != "") {
		errors = append(errors, "  ❌ Both GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}

	if (c.GitHubClientID != "") != (c.GitHubClientSecret != "") {
		errors = append(errors, "  ❌ Both GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together")
	}

	if c.S3Endpoint != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		errors = append(errors, "  ❌ S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	for _, origin := range c.AllowedRedirects {
		u, err := url.Parse(strings.TrimSpace(origin))
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("  ❌ ALLOWED_REDIRECTS entry %q must be an absolute origin", origin))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}

func (c *EnvConfig) applyDefaults() {
	base := strings.TrimRight(c.BaseURL, "/")
	if c.GoogleRedirectURI == "" {
		c.GoogleRedirectURI = base + "/api/auth/google/callback"
	}
	if c.GitHubRedirectURI == "" {
		c.GitHubRedirectURI = base + "/api/auth/github/callback"
	}
	for i := range c.AllowedRedirects {
		c.AllowedRedirects[i] = strings.TrimRight(strings.TrimSpace(c.AllowedRedirects[i]), "/")
	}
}

func (c *EnvConfig) IsProduction() bool {
	return utils.IsProdName(c.Environment)
}

func (c *EnvConfig) GoogleEnabled() bool { return c.GoogleClientID != "" }
func (c *EnvConfig) GitHubEnabled() bool { return c.GitHubClientID != "" }
func (c *EnvConfig) RedisEnabled() bool { return c.RedisAddr != "" }
func (c *EnvConfig) S3Enabled() bool { return c.S3Endpoint != "" }
func (c *EnvConfig) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c *EnvConfig) DBConfig() db.Config {
	return db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func enabled(on bool) string {
	if on {
		return "✓ Enabled"
	}
	return "✗ Disabled"
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("📋 Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Base URL: %s\n", c.BaseURL)
	fmtr("  Auth Secret: %s\n", MaskSecret(c.AuthSecret))
	fmtr("  Session TTL: %s (state %s)\n", c.SessionTTL, c.StateTTL)

	if c.DBDriver == db.DriverSQLite {
		fmtr("  Database: sqlite %s\n", c.DBPath)
	} else {
		fmtr("  Database: %s@%s:%d/%s (sslmode=%s)\n", c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
	}

	if c.RedisEnabled() {
		fmtr("  KV: valkey %s\n", c.RedisAddr)
	} else {
		fmtr("  KV: in-memory\n")
	}

	fmtr("  Google OAuth: %s\n", enabled(c.GoogleEnabled()))
	if c.GoogleEnabled() {
		fmtr("    Client ID: %s\n", MaskSecret(c.GoogleClientID))
		fmtr("    Client Secret: %s\n", MaskSecret(c.GoogleClientSecret))
	}
	fmtr("  GitHub OAuth: %s\n", enabled(c.GitHubEnabled()))
	if c.GitHubEnabled() {
		fmtr("    Client ID: %s\n", MaskSecret(c.GitHubClientID))
		fmtr("    Client Secret: %s\n", MaskSecret(c.GitHubClientSecret))
	}

	fmtr("  Avatars (S3): %s\n", enabled(c.S3Enabled()))
	fmtr("  Account events (Kafka): %s\n", enabled(c.KafkaEnabled()))
	if len(c.AllowedRedirects) > 0 {
		fmtr("  Allowed redirects: %s\n", strings.Join(c.AllowedRedirects, ", "))
	}
}
