package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/globeguide/models"
)

type captured struct {
	mu     sync.Mutex
	method string
	path   string
	auth   string
	body   []byte
}

func (c *captured) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = r.Method
	c.path = r.URL.Path
	c.auth = r.Header.Get("Authorization")
	c.body = body
}

func (c *captured) snapshot() (method, path, auth string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method, c.path, c.auth, c.body
}

func newAPI(t *testing.T, status int, response string) (*Client, *captured) {
	t.Helper()
	last := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), last
}

func TestLogin(t *testing.T) {
	id := uuid.New()
	c, last := newAPI(t, http.StatusOK, `{"success":true,"message":"Login successful","data":{
		"access_token":"v2.local.abc","expires_at":"2030-01-01T00:00:00Z",
		"user":{"id":"`+id.String()+`","email":"ada@example.com","display_name":"Ada"}}}`)

	sess, err := c.Login(context.Background(), "ada@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "v2.local.abc", sess.AccessToken)
	assert.Equal(t, id, sess.User.ID)
	assert.Equal(t, "Ada", sess.User.DisplayName)
	assert.False(t, sess.Expired(time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, sess.Expired(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))

	method, path, auth, body := last.snapshot()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/v1/users/login", path)
	assert.Empty(t, auth)
	assert.JSONEq(t, `{"email":"ada@example.com","password":"s3cretpass"}`, string(body))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, _ := newAPI(t, http.StatusUnauthorized,
		`{"success":false,"message":"Request failed","error":{"code":"UNAUTHORIZED","message":"Invalid credentials"}}`)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.True(t, IsAuthError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestRegister_Conflict(t *testing.T) {
	c, _ := newAPI(t, http.StatusConflict,
		`{"success":false,"error":{"code":"CONFLICT","message":"email already registered"}}`)

	_, err := c.Register(context.Background(), RegisterRequest{Email: "ada@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestRegister_ValidationDetails(t *testing.T) {
	c, _ := newAPI(t, http.StatusBadRequest,
		`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":{"email":"must be a valid email address"}}}`)

	_, err := c.Register(context.Background(), RegisterRequest{Email: "nope"})
	require.ErrorIs(t, err, models.ErrValidation)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be a valid email address", ve.Fields["email"])
}

func TestServerErrorIsNetworkFailure(t *testing.T) {
	c, _ := newAPI(t, http.StatusBadGateway,
		`{"success":false,"error":{"code":"UPSTREAM_ERROR","message":"Country source unavailable"}}`)

	_, err := c.Me(context.Background(), "tok")
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.NotErrorIs(t, err, models.ErrUnauthorized)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := New(srv.URL).Logout(context.Background(), "tok")
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestMe_SendsBearerToken(t *testing.T) {
	id := uuid.New()
	c, last := newAPI(t, http.StatusOK,
		`{"success":true,"data":{"id":"`+id.String()+`","email":"ada@example.com","display_name":"Ada"}}`)

	me, err := c.Me(context.Background(), "v2.local.tok")
	require.NoError(t, err)
	assert.Equal(t, id, me.ID)

	method, path, auth, _ := last.snapshot()
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/api/v1/users/me", path)
	assert.Equal(t, "Bearer v2.local.tok", auth)
}

func TestLogout_NoData(t *testing.T) {
	c, last := newAPI(t, http.StatusOK, `{"success":true,"message":"Logged out"}`)

	require.NoError(t, c.Logout(context.Background(), "tok"))
	method, path, _, _ := last.snapshot()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/v1/users/logout", path)
}

func TestMalformedSuccessBody(t *testing.T) {
	c, _ := newAPI(t, http.StatusOK, `{"success":true,"data":`)
	_, err := c.Me(context.Background(), "tok")
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestProfileStore(t *testing.T) {
	userID := uuid.New()

	t.Run("absent list reads as nil", func(t *testing.T) {
		c, last := newAPI(t, http.StatusOK,
			`{"success":true,"data":{"id":"`+userID.String()+`","favorite_countries":null}}`)
		store := NewProfileStore(c, staticToken("tok"))

		codes, err := store.ReadFavorites(context.Background(), userID)
		require.NoError(t, err)
		assert.Nil(t, codes)

		_, path, auth, _ := last.snapshot()
		assert.Equal(t, "/api/v1/profiles/"+userID.String(), path)
		assert.Equal(t, "Bearer tok", auth)
	})

	t.Run("stored list", func(t *testing.T) {
		c, _ := newAPI(t, http.StatusOK,
			`{"success":true,"data":{"id":"`+userID.String()+`","favorite_countries":["FRA","JPN"]}}`)
		codes, err := NewProfileStore(c, staticToken("tok")).ReadFavorites(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"FRA", "JPN"}, codes)
	})

	t.Run("write patches only the favorite list", func(t *testing.T) {
		c, last := newAPI(t, http.StatusOK, `{"success":true,"data":{}}`)
		store := NewProfileStore(c, staticToken("tok"))

		require.NoError(t, store.WriteFavorites(context.Background(), userID, []string{"FRA"}))
		method, _, _, body := last.snapshot()
		assert.Equal(t, http.MethodPatch, method)
		assert.JSONEq(t, `{"favorite_countries":["FRA"]}`, string(body))
	})

	t.Run("empty write stores an empty list", func(t *testing.T) {
		c, last := newAPI(t, http.StatusOK, `{"success":true,"data":{}}`)
		require.NoError(t, NewProfileStore(c, staticToken("tok")).WriteFavorites(context.Background(), userID, nil))

		_, _, _, body := last.snapshot()
		var patch map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body, &patch))
		assert.JSONEq(t, `[]`, string(patch["favorite_countries"]))
	})

	t.Run("forbidden", func(t *testing.T) {
		c, _ := newAPI(t, http.StatusForbidden, `{"success":false,"error":{"code":"FORBIDDEN","message":"Access denied"}}`)
		err := NewProfileStore(c, staticToken("tok")).WriteFavorites(context.Background(), userID, []string{"FRA"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
