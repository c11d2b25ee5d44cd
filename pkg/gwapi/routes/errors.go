package routes

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwerr"
)

// httpError maps a service error to a huma status error with a fixed,
// client-safe message. Unknown errors are logged and become a bare 500.
func httpError(svcs *services.Services, err error) error {
	switch gwerr.CodeOf(err) {
	case gwerr.CodeInvalidCredentials:
		return huma.Error401Unauthorized("Invalid credentials")
	case gwerr.CodeAlreadyRegistered:
		return huma.Error400BadRequest("Email already registered")
	case gwerr.CodeEmailInUse:
		return huma.Error409Conflict("Email already belongs to another account")
	case gwerr.CodeUnauthorized, gwerr.CodeInvalidToken, gwerr.CodeExpiredToken:
		return huma.Error401Unauthorized("Unauthorized")
	case gwerr.CodeForbidden:
		return huma.Error403Forbidden("Forbidden")
	case gwerr.CodeInvalidState:
		return huma.Error400BadRequest("Invalid or expired state")
	case gwerr.CodeTokenExchangeFailed:
		return huma.Error401Unauthorized("Token exchange failed")
	case gwerr.CodeProfileFetchFailed:
		return huma.Error401Unauthorized("Failed to fetch profile")
	case gwerr.CodeNotConfigured:
		return huma.Error503ServiceUnavailable(message(err))
	case gwerr.CodeNotFound:
		return huma.Error404NotFound(message(err))
	case gwerr.CodeInvalidInput:
		return huma.Error400BadRequest(message(err))
	}

	if svcs != nil && svcs.Logger != nil {
		svcs.Logger.Error("request failed", "error", err)
	}
	return huma.Error500InternalServerError("")
}

// message returns the text of the coded error without its code prefix.
func message(err error) string {
	var e *gwerr.Error
	if errors.As(err, &e) {
		if inner := e.Unwrap(); inner != nil {
			return inner.Error()
		}
	}
	return err.Error()
}
