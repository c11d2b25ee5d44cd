package session

import (
	"errors"
	"net/url"
	"strings"

	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var ErrRedirectNotAllowed = gwerr.New(gwerr.CodeInvalidInput, errors.New("redirect target not allowed"))

// RedirectPolicy decides where a browser may be sent after signing in.
// Same-origin relative paths are always allowed; absolute URLs must match one
// of the configured origins exactly (scheme, host and port).
type RedirectPolicy struct {
	origins map[string]struct{}
}

func NewRedirectPolicy(origins []string) *RedirectPolicy {
	p := &RedirectPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		u, err := url.Parse(strings.TrimSpace(o))
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		p.origins[originOf(u)] = struct{}{}
	}
	return p
}

// Check returns nil for an empty target (no redirect) or an allowed one.
func (p *RedirectPolicy) Check(target string) error {
	if target == "" || p.Allowed(target) {
		return nil
	}
	return ErrRedirectNotAllowed
}

func (p *RedirectPolicy) Allowed(target string) bool {
	if strings.ContainsAny(target, "\\\r\n\t") {
		return false
	}
	if strings.HasPrefix(target, "/") {
		// "//host" is scheme-relative and leaves the origin
		return !strings.HasPrefix(target, "//")
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" || u.User != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	_, ok := p.origins[originOf(u)]
	return ok
}

func originOf(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
