package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/app/user"
	"github.com/joefazee/globeguide/internal/deps"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/security"
	"github.com/joefazee/globeguide/models"
)

type HandlerTestSuite struct {
	suite.Suite
	service *MockService
	router  *gin.Engine
	caller  uuid.UUID
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.service = new(MockService)
	s.caller = uuid.New()

	container := deps.NewContainer(nil, nil, sanitizer.NewHTMLStripper(), nil, nil)
	container.RegisterService(ServiceKey, s.service)

	s.router = gin.New()
	group := s.router.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		user.ContextSetToken(c, &security.Payload{ID: uuid.New(), UserID: s.caller})
		c.Next()
	})
	MountAuthenticated(group, container)
}

func TestProfileHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) path() string {
	return "/api/v1/profiles/" + s.caller.String()
}

func (s *HandlerTestSuite) TestGetProfile_NeverWrittenFavorites() {
	s.service.On("Get", mock.Anything, s.caller, s.caller).
		Return(&models.Profile{ID: s.caller, Preferences: models.DefaultPreferences()}, nil)

	w := s.do(http.MethodGet, s.path(), "")

	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("null", string(resp.Data["favorite_countries"]))
	s.JSONEq(`{"theme":"light","default_view":"grid"}`, string(resp.Data["preferences"]))
}

func (s *HandlerTestSuite) TestGetProfile_InvalidID() {
	w := s.do(http.MethodGet, "/api/v1/profiles/not-a-uuid", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.service.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestGetProfile_Forbidden() {
	other := uuid.New()
	s.service.On("Get", mock.Anything, s.caller, other).Return(nil, models.ErrForbidden)

	w := s.do(http.MethodGet, "/api/v1/profiles/"+other.String(), "")

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestUpdateProfile_NormalizesFavorites() {
	expected := []string{"USA", "FRA"}
	s.service.On("Update", mock.Anything, s.caller, s.caller, &UpdateProfileRequest{FavoriteCountries: &expected}).
		Return(&models.Profile{ID: s.caller, FavoriteCountries: expected}, nil)

	w := s.do(http.MethodPatch, s.path(), `{"favorite_countries":["usa","FRA","USA"]}`)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"favorite_countries":["USA","FRA"]`)
	s.service.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestUpdateProfile_ValidationError() {
	w := s.do(http.MethodPatch, s.path(), `{"favorite_countries":["France"]}`)

	s.Equal(http.StatusBadRequest, w.Code)
	var resp api.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
}

func (s *HandlerTestSuite) TestUpdateProfile_EmptyBody() {
	w := s.do(http.MethodPatch, s.path(), `{}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.service.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestUpdateProfile_MalformedJSON() {
	w := s.do(http.MethodPatch, s.path(), `{"display_name":`)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestWithoutAuthentication() {
	router := gin.New()
	container := deps.NewContainer(nil, nil, nil, nil, nil)
	container.RegisterService(ServiceKey, s.service)
	MountAuthenticated(router.Group("/api/v1"), container)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, s.path(), http.NoBody))

	s.Equal(http.StatusUnauthorized, w.Code)
}
