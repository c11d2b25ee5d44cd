// Package gwsdk is the client side of the gateway API used by gatewayctl.
package gwsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var ErrNotLoggedIn = gwerr.New(gwerr.CodeUnauthorized, errors.New("not logged in"))

// APIError is a non-2xx response from the gateway.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func codeForStatus(status int) gwerr.Code {
	switch status {
	case http.StatusBadRequest:
		return gwerr.CodeInvalidInput
	case http.StatusUnauthorized:
		return gwerr.CodeUnauthorized
	case http.StatusForbidden:
		return gwerr.CodeForbidden
	case http.StatusNotFound:
		return gwerr.CodeNotFound
	case http.StatusConflict:
		return gwerr.CodeEmailInUse
	case http.StatusServiceUnavailable:
		return gwerr.CodeNotConfigured
	}
	return gwerr.CodeUnknown
}

type TimeInfo struct {
	Timezone  string `json:"timezone"`
	Datetime  string `json:"datetime"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Unix      int64  `json:"unix"`
	Offset    int    `json:"offset"`
	Time12Hr  string `json:"time_12hr"`
	Time24Hr  string `json:"time_24hr"`
	DayOfWeek int    `json:"day_of_week"`
	DayOfYear int    `json:"day_of_year"`
}

type TodoPage struct {
	Todos      []schemas.Todo     `json:"todos"`
	Pagination schemas.Pagination `json:"pagination"`
}

// Sdk wraps the gateway HTTP API with the stored session token.
type Sdk struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns an Sdk for baseURL carrying token (which may be empty).
func New(baseURL, token string) *Sdk {
	return &Sdk{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewFromConfig loads the token stored in the keyring for cfg.BaseURL.
func NewFromConfig(cfg *Config) (*Sdk, error) {
	token, err := LoadToken(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	return New(cfg.BaseURL, token), nil
}

// ClearCredentials removes the stored token for BaseURL.
func (s *Sdk) ClearCredentials() error {
	s.Token = ""
	return DeleteToken(s.BaseURL)
}

// Login signs in with email and password and stores the session token.
func (s *Sdk) Login(ctx context.Context, email, password string) (*schemas.AuthBody, error) {
	body := map[string]string{"email": email, "password": password}
	var out schemas.AuthBody
	if err := s.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out, false); err != nil {
		return nil, err
	}
	s.Token = out.Token
	if err := SaveToken(s.BaseURL, out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out, nil
}

// Logout revokes the session server-side and forgets it locally.
func (s *Sdk) Logout(ctx context.Context) error {
	if s.Token != "" {
		if err := s.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil, true); err != nil &&
			!gwerr.IsCode(err, gwerr.CodeUnauthorized) {
			return err
		}
	}
	return s.ClearCredentials()
}

func (s *Sdk) Me(ctx context.Context) (*schemas.User, error) {
	var out struct {
		User schemas.User `json:"user"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Time returns the current time in zone. It needs no session.
func (s *Sdk) Time(ctx context.Context, zone string) (*TimeInfo, error) {
	q := url.Values{}
	if zone != "" {
		q.Set("timezone", zone)
	}
	var out TimeInfo
	if err := s.do(ctx, http.MethodGet, "/api/tools/time", q, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Sdk) ListTodos(ctx context.Context, page, limit int) (*TodoPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out TodoPage
	if err := s.do(ctx, http.MethodGet, "/api/todos", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Sdk) AddTodo(ctx context.Context, text string) (*schemas.Todo, error) {
	var out struct {
		Todo schemas.Todo `json:"todo"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/todos", nil, map[string]string{"text": text}, &out, true); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

// CompleteTodo marks the todo with id as done.
func (s *Sdk) CompleteTodo(ctx context.Context, id string) (*schemas.Todo, error) {
	var out struct {
		Todo schemas.Todo `json:"todo"`
	}
	path := "/api/todos/" + url.PathEscape(id)
	if err := s.do(ctx, http.MethodPatch, path, nil, map[string]bool{"isDone": true}, &out, true); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

func (s *Sdk) do(ctx context.Context, method, path string, query url.Values, in, out any, auth bool) error {
	if auth {
		if s.Token == "" || IsTokenExpired(s.Token, 30*time.Second) {
			return ErrNotLoggedIn
		}
	}

	u := s.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return gwerr.New(codeForStatus(resp.StatusCode), apiErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
