package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/validator"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	log       logger.Logger
}

// NewHandler creates a new user handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{service: service, sanitizer: s, log: log}
}

// Register godoc
// @Summary      Register a new user
// @Description  Create a new user account with an empty profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterUserRequest  true  "User registration details"
// @Success      201      {object}  api.Response{data=models.Profile}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      409      {object}  api.Response{error=api.ErrorInfo}
// @Failure      500      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.sanitizer) {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	profile, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		api.DomainErrorResponse(c, err, "User")
		return
	}

	h.log.Info("user registered", map[string]interface{}{"user_id": profile.ID.String()})
	api.CreatedResponse(c, "User registered successfully", profile)
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticate a user and return an access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  api.Response{data=LoginResponse}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      401      {object}  api.Response{error=api.ErrorInfo}
// @Failure      500      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	req.Normalize()

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		api.DomainErrorResponse(c, err, "User")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the access token used for this request
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  api.Response
// @Failure      401      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	payload := ContextGetToken(c)
	if err := h.service.Logout(c.Request.Context(), payload); err != nil {
		api.DomainErrorResponse(c, err, "Token")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Identity of the user the access token belongs to
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  api.Response{data=models.Identity}
// @Failure      401      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := ContextGetUserID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	identity, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		api.DomainErrorResponse(c, err, "User")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "User retrieved", identity)
}
