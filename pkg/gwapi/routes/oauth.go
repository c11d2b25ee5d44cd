package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/oauth"
	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var providerTitles = map[string]string{
	oauth.ProviderGoogle: "Google",
	oauth.ProviderGitHub: "GitHub",
}

func RegisterOAuth(api huma.API, svcs *services.Services) {
	for _, provider := range []string{oauth.ProviderGoogle, oauth.ProviderGitHub} {
		registerProvider(api, svcs, provider)
	}
}

func registerProvider(api huma.API, svcs *services.Services, provider string) {
	title := providerTitles[provider]

	huma.Register(api, huma.Operation{
		OperationID: "oauth-" + provider + "-start",
		Method:      http.MethodGet,
		Path:        "/api/auth/" + provider,
		Summary:     "Sign in with " + title,
		Description: "Redirects to the " + title + " authorize page",
		Tags:        []string{TagOAuth.String()},
	}, func(ctx context.Context, input *schemas.OAuthStartRequest) (*schemas.OAuthStartResponse, error) {
		authorizeURL, err := svcs.OAuth.Start(ctx, provider, input.Redirect)
		if err != nil {
			if gwerr.IsCode(err, gwerr.CodeNotConfigured) {
				return nil, huma.Error503ServiceUnavailable(fmt.Sprintf("%s OAuth is not configured", title))
			}
			return nil, httpError(svcs, err)
		}
		return &schemas.OAuthStartResponse{
			Status:   http.StatusFound,
			Location: authorizeURL,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-" + provider + "-callback",
		Method:      http.MethodGet,
		Path:        "/api/auth/" + provider + "/callback",
		Summary:     title + " OAuth callback",
		Description: "Exchanges the code, signs the account in and redirects or returns the session",
		Tags:        []string{TagOAuth.String()},
	}, func(ctx context.Context, input *schemas.OAuthCallbackRequest) (*schemas.AuthResponse, error) {
		result, err := svcs.OAuth.Callback(ctx, provider, input.Code, input.State)
		if err != nil {
			switch gwerr.CodeOf(err) {
			case gwerr.CodeNotConfigured:
				return nil, huma.Error503ServiceUnavailable(fmt.Sprintf("%s OAuth is not configured", title))
			case gwerr.CodeTokenExchangeFailed:
				if provider == oauth.ProviderGitHub {
					return nil, huma.Error401Unauthorized("GitHub token exchange failed")
				}
			}
			return nil, httpError(svcs, err)
		}
		return authResponse(svcs, result.Session, result.Redirect), nil
	})
}
