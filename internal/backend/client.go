// Package backend is the terminal client's view of the GlobeGuide API: account
// sign-in and the per-user profile document.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/models"
)

// APIError is a non-success response carrying the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Is maps envelope codes onto the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case models.ErrForbidden:
		return e.Status == http.StatusForbidden
	case models.ErrRecordNotFound:
		return e.Status == http.StatusNotFound
	case models.ErrDuplicateEmail:
		return e.Status == http.StatusConflict
	case models.ErrNetwork:
		return e.Status >= 500
	}
	return false
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// RegisterRequest creates an account and its profile document.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        models.Identity `json:"user"`
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	DisplayName       *string             `json:"display_name,omitempty"`
	Preferences       *models.Preferences `json:"preferences,omitempty"`
	FavoriteCountries *[]string           `json:"favorite_countries,omitempty"`
}

// Client talks to the GlobeGuide API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: http.DefaultClient,
		log:        logger.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, "register", http.MethodPost, "/users/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out Session
	if err := c.do(ctx, "login", http.MethodPost, "/users/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodPost, "/users/logout", token, nil, nil)
}

// Me returns the identity that token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, "whoami", http.MethodGet, "/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile reads the profile document of userID.
func (c *Client) GetProfile(ctx context.Context, token string, userID uuid.UUID) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, "read profile", http.MethodGet, "/profiles/"+userID.String(), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies patch to the profile document of userID.
func (c *Client) UpdateProfile(ctx context.Context, token string, userID uuid.UUID, patch ProfilePatch) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, "update profile", http.MethodPatch, "/profiles/"+userID.String(), token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &models.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(err, map[string]interface{}{"op": op})
		return &models.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &models.NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}
	c.log.Debug("api response", map[string]interface{}{"op": op, "status": resp.StatusCode})

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &models.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, toError(resp.StatusCode, &env))
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &models.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func toError(status int, env *envelope) error {
	apiErr := &APIError{Status: status}
	if env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message

		if env.Error.Code == "VALIDATION_ERROR" {
			var fields map[string]string
			if json.Unmarshal(env.Error.Details, &fields) == nil && len(fields) > 0 {
				return models.NewValidationError(fields)
			}
			return models.NewValidationError(map[string]string{"request": apiErr.Message})
		}
	}
	return apiErr
}

// IsAuthError reports whether err means the session is no longer accepted.
func IsAuthError(err error) bool {
	return errors.Is(err, models.ErrUnauthorized)
}
