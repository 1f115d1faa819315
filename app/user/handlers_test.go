package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/internal/deps"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/security"
	"github.com/joefazee/globeguide/models"
)

type HandlerTestSuite struct {
	suite.Suite
	service *MockService
	router  *gin.Engine
	payload *security.Payload
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.service = new(MockService)
	s.payload = &security.Payload{ID: uuid.New(), UserID: uuid.New(), ExpiredAt: time.Now().Add(time.Hour)}

	container := deps.NewContainer(nil, nil, sanitizer.NewHTMLStripper(), nil, nil)
	container.RegisterService(ServiceKey, s.service)

	s.router = gin.New()
	MountPublic(s.router.Group("/api/v1"), container)

	authed := s.router.Group("/api/v1")
	authed.Use(func(c *gin.Context) {
		ContextSetToken(c, s.payload)
		c.Next()
	})
	MountAuthenticated(authed, container)
}

func TestUserHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder) api.Response {
	var resp api.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerTestSuite) TestRegister_Success() {
	profile := &models.Profile{ID: uuid.New(), Email: "ada@example.com", DisplayName: "Ada"}
	s.service.On("Register", mock.Anything, &RegisterUserRequest{
		DisplayName: "Ada", Email: "ada@example.com", Password: "s3cretpass",
	}).Return(profile, nil)

	w := s.do(http.MethodPost, "/api/v1/users/register",
		`{"display_name":"<b>Ada</b>","email":"ADA@example.com","password":"s3cretpass"}`)

	s.Equal(http.StatusCreated, w.Code)
	resp := s.decode(w)
	s.True(resp.Success)
	s.service.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestRegister_MalformedJSON() {
	w := s.do(http.MethodPost, "/api/v1/users/register", `{"email":`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("BAD_REQUEST", s.decode(w).Error.Code)
	s.service.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestRegister_ValidationError() {
	w := s.do(http.MethodPost, "/api/v1/users/register", `{"email":"nope","password":"short"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	resp := s.decode(w)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]interface{})
	s.Require().True(ok)
	s.Contains(details, "email")
	s.Contains(details, "password")
}

func (s *HandlerTestSuite) TestRegister_Duplicate() {
	s.service.On("Register", mock.Anything, mock.Anything).Return(nil, models.ErrDuplicateEmail)

	w := s.do(http.MethodPost, "/api/v1/users/register", `{"email":"ada@example.com","password":"s3cretpass"}`)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestLogin_Success() {
	resp := &LoginResponse{
		AccessToken: "v2.local.tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        models.Identity{ID: uuid.New(), Email: "ada@example.com"},
	}
	s.service.On("Login", mock.Anything, &LoginRequest{Email: "ada@example.com", Password: "s3cretpass"}).
		Return(resp, nil)

	w := s.do(http.MethodPost, "/api/v1/users/login", `{"email":" Ada@Example.com ","password":"s3cretpass"}`)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"access_token":"v2.local.tok"`)
}

func (s *HandlerTestSuite) TestLogin_MissingFields() {
	w := s.do(http.MethodPost, "/api/v1/users/login", `{"email":"ada@example.com"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.service.AssertNotCalled(s.T(), "Login", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestLogin_InvalidCredentials() {
	s.service.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidCredentials)

	w := s.do(http.MethodPost, "/api/v1/users/login", `{"email":"ada@example.com","password":"wrongpass"}`)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid credentials", s.decode(w).Error.Message)
}

func (s *HandlerTestSuite) TestLogout() {
	s.service.On("Logout", mock.Anything, s.payload).Return(nil)

	w := s.do(http.MethodPost, "/api/v1/users/logout", "")

	s.Equal(http.StatusOK, w.Code)
	s.service.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestLogout_Failure() {
	s.service.On("Logout", mock.Anything, s.payload).Return(errors.New("redis down"))

	w := s.do(http.MethodPost, "/api/v1/users/logout", "")

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *HandlerTestSuite) TestMe() {
	identity := &models.Identity{ID: s.payload.UserID, Email: "ada@example.com", DisplayName: "Ada"}
	s.service.On("Me", mock.Anything, s.payload.UserID).Return(identity, nil)

	w := s.do(http.MethodGet, "/api/v1/users/me", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), s.payload.UserID.String())
}

func (s *HandlerTestSuite) TestMe_AccountGone() {
	s.service.On("Me", mock.Anything, s.payload.UserID).Return(nil, models.ErrUnauthorized)

	w := s.do(http.MethodGet, "/api/v1/users/me", "")

	s.Equal(http.StatusUnauthorized, w.Code)
}
