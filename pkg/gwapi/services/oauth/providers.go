package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/github"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	defaultGoogleAPI = "https://www.googleapis.com"
	defaultGitHubAPI = "https://api.github.com"
)

// ProviderConfig holds the client credentials for one provider. AuthURL,
// TokenURL and APIBaseURL override the public endpoints.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

func (c ProviderConfig) enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type provider struct {
	name       string
	oauth      *oauth2.Config
	authParams []oauth2.AuthCodeOption
	apiBase    string
	profile    func(ctx context.Context, client *http.Client, apiBase string) (*accounts.Identity, error)
}

func newProvider(name string, cfg ProviderConfig) *provider {
	p := &provider{name: name}

	var endpoint oauth2.Endpoint
	var scopes []string
	switch name {
	case ProviderGoogle:
		endpoint = endpoints.Google
		scopes = []string{"openid", "email", "profile"}
		p.authParams = []oauth2.AuthCodeOption{
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		}
		p.apiBase = defaultGoogleAPI
		p.profile = fetchGoogleProfile
	case ProviderGitHub:
		endpoint = github.Endpoint
		scopes = []string{"read:user", "user:email"}
		p.apiBase = defaultGitHubAPI
		p.profile = fetchGitHubProfile
	}

	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if cfg.APIBaseURL != "" {
		p.apiBase = strings.TrimRight(cfg.APIBaseURL, "/")
	}

	p.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
		RedirectURL:  cfg.RedirectURL,
	}
	return p
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, client *http.Client, apiBase string) (*accounts.Identity, error) {
	var info googleUserInfo
	if err := getJSON(ctx, client, apiBase+"/oauth2/v3/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google userinfo has no subject")
	}
	return &accounts.Identity{
		Provider:      ProviderGoogle,
		ProviderID:    info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
		AvatarURL:     info.Picture,
	}, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func fetchGitHubProfile(ctx context.Context, client *http.Client, apiBase string) (*accounts.Identity, error) {
	var user githubUser
	if err := getJSON(ctx, client, apiBase+"/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github user has no id")
	}

	var emails []githubEmail
	if err := getJSON(ctx, client, apiBase+"/user/emails", &emails); err != nil {
		return nil, err
	}

	id := &accounts.Identity{
		Provider:   ProviderGitHub,
		ProviderID: strconv.FormatInt(user.ID, 10),
		Name:       user.Name,
		AvatarURL:  user.AvatarURL,
	}
	if id.Name == "" {
		id.Name = user.Login
	}
	for _, e := range emails {
		if e.Primary {
			id.Email = e.Email
			id.EmailVerified = e.Verified
			break
		}
	}
	return id, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
