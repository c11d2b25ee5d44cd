package config

import (
	"strings"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
)

func validConfig() EnvConfig {
	return EnvConfig{
		BaseURL:    "http://localhost:3000",
		AuthSecret: strings.Repeat("s", 32),
		SessionTTL: time.Hour,
		StateTTL:   time.Minute,
		CookieName: "token",
		DBDriver:   "sqlite",
	}
}

func TestValidateAccepts(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.AuthSecret = "short"
	cfg.GoogleClientID = "id-without-secret"
	cfg.DBDriver = "mysql"
	cfg.AllowedRedirects = []string{"not-an-origin"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"AUTH_SECRET", "GOOGLE_CLIENT_ID", "DB_DRIVER", "ALLOWED_REDIRECTS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %s: %v", want, err)
		}
	}
}

func TestProcessDefaults(t *testing.T) {
	t.Setenv("BASE_URL", "https://gw.example.com/")
	t.Setenv("AUTH_SECRET", strings.Repeat("x", 40))
	t.Setenv("ALLOWED_REDIRECTS", "https://app.example.com/, https://admin.example.com")

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		t.Fatalf("process: %v", err)
	}
	cfg.applyDefaults()

	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("expected 7 day session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CookieName != "token" {
		t.Errorf("expected default cookie name, got %q", cfg.CookieName)
	}
	if cfg.GoogleRedirectURI != "https://gw.example.com/api/auth/google/callback" {
		t.Errorf("unexpected google redirect %q", cfg.GoogleRedirectURI)
	}
	if got := strings.Join(cfg.AllowedRedirects, "|"); got != "https://app.example.com|https://admin.example.com" {
		t.Errorf("unexpected allowed redirects %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"":                 "<not set>",
		"short":            "***",
		"abcdefghijklmnop": "abcd...mnop",
	}
	for in, want := range cases {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
