package countries

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/internal/restcountries"
)

// Handler handles HTTP requests for countries
type Handler struct {
	service Service
}

// NewHandler creates a new country handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GetAllCountries godoc
// @Summary List all countries
// @Description Proxy of the country source listing every country. The response is the upstream JSON array.
// @Tags countries
// @Produce json
// @Param fields query string false "Comma separated fields, at most 10"
// @Success 200 {array} object
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/all [get]
func (h *Handler) GetAllCountries(c *gin.Context) {
	fields, err := ParseFields(c.Query("fields"), restcountries.ListFields)
	if err != nil {
		api.DomainErrorResponse(c, err, "Country")
		return
	}
	payload, err := h.service.All(c.Request.Context(), fields)
	h.respond(c, payload, err)
}

// GetCountriesByRegion godoc
// @Summary List countries in a region
// @Description Countries of one of Africa, Americas, Asia, Europe, Oceania, Antarctic
// @Tags countries
// @Produce json
// @Param region path string true "Region name"
// @Success 200 {array} object
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/region/{region} [get]
func (h *Handler) GetCountriesByRegion(c *gin.Context) {
	payload, err := h.service.ByRegion(c.Request.Context(), c.Param("region"))
	h.respond(c, payload, err)
}

// SearchCountriesByName godoc
// @Summary Search countries by name
// @Description Countries whose name contains the given text; no match is an empty array
// @Tags countries
// @Produce json
// @Param name path string true "Full or partial name"
// @Success 200 {array} object
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/name/{name} [get]
func (h *Handler) SearchCountriesByName(c *gin.Context) {
	payload, err := h.service.ByName(c.Request.Context(), c.Param("name"))
	h.respond(c, payload, err)
}

// GetCountryByCode godoc
// @Summary Get country by code
// @Description Detail record of one country as a zero or one element array
// @Tags countries
// @Produce json
// @Param code path string true "Country Code (2 or 3 letters)"
// @Success 200 {array} object
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/alpha/{code} [get]
func (h *Handler) GetCountryByCode(c *gin.Context) {
	payload, err := h.service.ByCode(c.Request.Context(), c.Param("code"))
	h.respond(c, payload, err)
}

// GetCountriesByCodes godoc
// @Summary Get several countries by code
// @Description Countries for a list of codes; unknown codes are omitted and an empty list returns an empty array
// @Tags countries
// @Produce json
// @Param codes query string true "Comma separated codes"
// @Param fields query string false "Comma separated fields, at most 10"
// @Success 200 {array} object
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/alpha [get]
func (h *Handler) GetCountriesByCodes(c *gin.Context) {
	codes, err := ParseCodes(c.Query("codes"))
	if err != nil {
		api.DomainErrorResponse(c, err, "Country")
		return
	}
	fields, err := ParseFields(c.Query("fields"), nil)
	if err != nil {
		api.DomainErrorResponse(c, err, "Country")
		return
	}
	payload, err := h.service.ByCodes(c.Request.Context(), codes, fields)
	h.respond(c, payload, err)
}

// GetRegionStats godoc
// @Summary Region statistics
// @Description Country count, total population, share of world population and density per region
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=[]RegionStatsResponse}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/regions [get]
func (h *Handler) GetRegionStats(c *gin.Context) {
	stats, err := h.service.RegionStats(c.Request.Context())
	if err != nil {
		api.DomainErrorResponse(c, err, "Region")
		return
	}
	api.ListResponse(c, "Region statistics retrieved successfully", stats, len(stats))
}

func (h *Handler) respond(c *gin.Context, payload *Payload, err error) {
	if err != nil {
		api.DomainErrorResponse(c, err, "Country")
		return
	}
	if payload.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload.Body)
}
