package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/avatars"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/session"
	"github.com/hasdev/api-gateway/pkg/gwapi/utils"
)

func RegisterUsers(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/api/users/{id}",
		Summary:     "Get user",
		Description: "Returns the public view of an account",
		Tags:        []string{TagUsers.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.GetUserRequest) (*schemas.UserResponse, error) {
		if _, err := session.RequireAuthenticated(ctx); err != nil {
			return nil, httpError(svcs, err)
		}
		account, err := svcs.Accounts.Get(ctx, input.ID)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.UserResponse{}
		resp.Body.User = schemas.NewUser(account)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-users",
		Method:      http.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List users",
		Description: "Lists all accounts, newest first. Admin only",
		Tags:        []string{TagAdmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.ListUsersRequest) (*schemas.ListUsersResponse, error) {
		if _, err := session.RequireAdmin(ctx); err != nil {
			return nil, httpError(svcs, err)
		}
		page, limit := utils.ClampPage(input.Page, input.Limit)
		accounts, total, err := svcs.Accounts.List(ctx, page, limit)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.ListUsersResponse{}
		resp.Body.Users = schemas.NewUsers(accounts)
		resp.Body.Pagination = schemas.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: utils.TotalPages(total, limit),
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:  "upload-avatar",
		Method:       http.MethodPut,
		Path:         "/api/users/me/avatar",
		Summary:      "Upload avatar",
		Description:  "Stores the raw image body as the caller's avatar and updates their profile picture",
		Tags:         []string{TagUsers.String()},
		Security:     BearerAuth,
		MaxBodyBytes: avatars.MaxAvatarBytes,
	}, func(ctx context.Context, input *schemas.UploadAvatarRequest) (*schemas.UserResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		account, err := svcs.Avatars.Upload(ctx, p.AccountID, input.ContentType, input.RawBody)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.UserResponse{}
		resp.Body.User = schemas.NewUser(account)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-avatar",
		Method:      http.MethodGet,
		Path:        "/api/users/{id}/avatar",
		Summary:     "Get avatar",
		Description: "Redirects to a short-lived download URL for the account's avatar",
		Tags:        []string{TagUsers.String()},
	}, func(ctx context.Context, input *schemas.GetUserRequest) (*schemas.AvatarRedirectResponse, error) {
		link, err := svcs.Avatars.URL(ctx, input.ID)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		return &schemas.AvatarRedirectResponse{
			Status:   http.StatusFound,
			Location: link,
		}, nil
	})
}
