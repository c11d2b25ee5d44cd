package schemas

import "net/http"

type RegisterRequest struct {
	Body struct {
		Email    string `json:"email" doc:"Email address" example:"ada@example.com"`
		Password string `json:"password" doc:"Password, 8 to 72 bytes"`
		Name     string `json:"name,omitempty" doc:"Display name" example:"Ada"`
	}
}

type LoginRequest struct {
	Redirect string `query:"redirect" doc:"Relative path or allowed origin to redirect to after login"`
	Body     struct {
		Email    string `json:"email" doc:"Email address"`
		Password string `json:"password" doc:"Password"`
	}
}

// AuthBody is returned by every endpoint that issues a session token.
type AuthBody struct {
	Token string `json:"token" doc:"Session token, also set as an httpOnly cookie"`
	User  User   `json:"user"`
}

// AuthResponse either carries a JSON body or, when a redirect target was
// requested, a 302 with the session cookie.
type AuthResponse struct {
	Status    int           `json:"-"`
	Location  string        `header:"Location" doc:"Redirect target when one was requested"`
	SetCookie []http.Cookie `header:"Set-Cookie" doc:"Session cookie"`
	Body      *AuthBody
}

type LogoutResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie" doc:"Expired session cookie"`
}

type OAuthStartRequest struct {
	Redirect string `query:"redirect" doc:"Relative path or allowed origin to redirect to after login"`
}

type OAuthStartResponse struct {
	Status   int    `json:"-"`
	Location string `header:"Location" doc:"Provider authorize URL"`
}

type OAuthCallbackRequest struct {
	Code  string `query:"code" required:"true" doc:"Authorization code from the provider"`
	State string `query:"state" required:"true" doc:"State issued by the start endpoint"`
}
