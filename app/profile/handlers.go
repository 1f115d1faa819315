package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/app/user"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/validator"
)

type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
}

func NewHandler(service Service, s sanitizer.HTMLStripperer) *Handler {
	return &Handler{service: service, sanitizer: s}
}

// GetProfile godoc
// @Summary      Get a profile
// @Description  Profile document of the caller. favorite_countries is null when never written.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  api.Response{data=models.Profile}
// @Failure      400  {object}  api.Response{error=api.ErrorInfo}
// @Failure      401  {object}  api.Response{error=api.ErrorInfo}
// @Failure      403  {object}  api.Response{error=api.ErrorInfo}
// @Failure      404  {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/profiles/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	callerID, profileID, ok := h.ids(c)
	if !ok {
		return
	}

	profile, err := h.service.Get(c.Request.Context(), callerID, profileID)
	if err != nil {
		api.DomainErrorResponse(c, err, "Profile")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update a profile
// @Description  Partial update of display_name, preferences and favorite_countries
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "User ID"
// @Param        request  body      UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  api.Response{data=models.Profile}
// @Failure      400      {object}  api.Response{error=api.ErrorInfo}
// @Failure      401      {object}  api.Response{error=api.ErrorInfo}
// @Failure      403      {object}  api.Response{error=api.ErrorInfo}
// @Failure      404      {object}  api.Response{error=api.ErrorInfo}
// @Router       /api/v1/profiles/{id} [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	callerID, profileID, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.sanitizer) {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	profile, err := h.service.Update(c.Request.Context(), callerID, profileID, &req)
	if err != nil {
		api.DomainErrorResponse(c, err, "Profile")
		return
	}
	api.UpdatedResponse(c, "Profile updated", profile)
}

func (h *Handler) ids(c *gin.Context) (callerID, profileID uuid.UUID, ok bool) {
	callerID, ok = user.ContextGetUserID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return uuid.Nil, uuid.Nil, false
	}
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, map[string]string{"id": "must be a valid UUID"})
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, profileID, true
}
