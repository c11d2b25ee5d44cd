package routes

import (
	"net/http"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/accounts"
)

func cookieSettings(svcs *services.Services) (name string, secure bool) {
	if svcs.Config == nil {
		return "token", false
	}
	return svcs.Config.CookieName, svcs.Config.IsProduction()
}

// sessionCookie carries the token until the token itself expires.
func sessionCookie(svcs *services.Services, sess *accounts.Session) http.Cookie {
	name, secure := cookieSettings(svcs)
	expires := sess.Claims.ExpiresAtTime()
	return http.Cookie{
		Name:     name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedCookie(svcs *services.Services) http.Cookie {
	name, secure := cookieSettings(svcs)
	return http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
