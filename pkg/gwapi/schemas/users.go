package schemas

import (
	"time"

	"github.com/hasdev/api-gateway/pkg/db/models"
)

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID             string    `json:"id" doc:"Account id"`
	Email          string    `json:"email,omitempty" doc:"Email address, empty for some provider accounts"`
	ProfileName    string    `json:"profileName,omitempty" doc:"Display name"`
	ProfilePicture string    `json:"profilePicture,omitempty" doc:"Uploaded avatar URL"`
	AvatarURL      string    `json:"avatarUrl,omitempty" doc:"Avatar URL reported by the OAuth provider"`
	IsAdmin        bool      `json:"isAdmin" doc:"Whether the account has admin rights"`
	EmailVerified  bool      `json:"emailVerified" doc:"Whether the email was verified"`
	Provider       string    `json:"provider,omitempty" enum:"google,github" doc:"OAuth provider for provider accounts"`
	CreatedAt      time.Time `json:"createdAt" doc:"Creation time"`
}

func NewUser(a *models.Account) User {
	return User{
		ID:             a.ID,
		Email:          a.Email,
		ProfileName:    a.ProfileName,
		ProfilePicture: a.ProfilePicture,
		AvatarURL:      a.AvatarURL,
		IsAdmin:        a.IsAdmin,
		EmailVerified:  a.EmailVerified,
		Provider:       a.Provider,
		CreatedAt:      a.CreatedAt,
	}
}

func NewUsers(accounts []models.Account) []User {
	users := make([]User, 0, len(accounts))
	for i := range accounts {
		users = append(users, NewUser(&accounts[i]))
	}
	return users
}

type UserResponse struct {
	Body struct {
		User User `json:"user"`
	}
}

type GetUserRequest struct {
	ID string `path:"id" doc:"Account id"`
}

type ListUsersRequest struct {
	Page  int `query:"page" default:"1" minimum:"1" doc:"Page number"`
	Limit int `query:"limit" default:"10" doc:"Page size, clamped to 1..100"`
}

type ListUsersResponse struct {
	Body struct {
		Users      []User     `json:"users"`
		Pagination Pagination `json:"pagination"`
	}
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

type UploadAvatarRequest struct {
	ContentType string `header:"Content-Type" doc:"Image MIME type, e.g. image/png"`
	RawBody     []byte `contentType:"image/*"`
}

type AvatarRedirectResponse struct {
	Status   int    `json:"-"`
	Location string `header:"Location" doc:"Presigned download URL"`
}
