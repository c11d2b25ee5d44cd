package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/session"
)

// authResponse sets the session cookie and either redirects to redirect or
// returns the token and user as JSON.
func authResponse(svcs *services.Services, sess *accounts.Session, redirect string) *schemas.AuthResponse {
	resp := &schemas.AuthResponse{
		SetCookie: []http.Cookie{sessionCookie(svcs, sess)},
	}
	if redirect != "" {
		resp.Status = http.StatusFound
		resp.Location = redirect
		return resp
	}
	resp.Status = http.StatusOK
	resp.Body = &schemas.AuthBody{
		Token: sess.Token,
		User:  schemas.NewUser(sess.Account),
	}
	return resp
}

func RegisterAuth(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "auth-register",
		Method:      http.MethodPost,
		Path:        "/api/auth/register",
		Summary:     "Register with email and password",
		Description: "Creates a password account and starts a session",
		Tags:        []string{TagAuth.String()},
	}, func(ctx context.Context, input *schemas.RegisterRequest) (*schemas.AuthResponse, error) {
		sess, err := svcs.Accounts.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		return authResponse(svcs, sess, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in with email and password",
		Description: "Starts a session. With ?redirect the response is a 302 carrying the session cookie",
		Tags:        []string{TagAuth.String()},
	}, func(ctx context.Context, input *schemas.LoginRequest) (*schemas.AuthResponse, error) {
		if err := svcs.Redirects.Check(input.Redirect); err != nil {
			return nil, httpError(svcs, err)
		}
		sess, err := svcs.Accounts.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		return authResponse(svcs, sess, input.Redirect), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-profile",
		Method:      http.MethodGet,
		Path:        "/api/auth/profile",
		Summary:     "Get current user",
		Description: "Returns the account of the session cookie or bearer token",
		Tags:        []string{TagAuth.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.UserResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		account, err := svcs.Accounts.Get(ctx, p.AccountID)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.UserResponse{}
		resp.Body.User = schemas.NewUser(account)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "auth-logout",
		Method:        http.MethodPost,
		Path:          "/api/auth/logout",
		Summary:       "Log out",
		Description:   "Clears the session cookie and revokes the current token until it expires",
		Tags:          []string{TagAuth.String()},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct{}) (*schemas.LogoutResponse, error) {
		if p := session.FromContext(ctx); p != nil {
			if err := svcs.Session.Revoke(ctx, p); err != nil {
				return nil, httpError(svcs, err)
			}
		}
		return &schemas.LogoutResponse{
			SetCookie: []http.Cookie{clearedCookie(svcs)},
		}, nil
	})
}
