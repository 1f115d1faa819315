package countries

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/internal/deps"
	"github.com/joefazee/globeguide/internal/restcountries"
)

const (
	CountryRepoKey    = "country_repository"
	CountryServiceKey = "country_service"

	cacheNamespace = "countries"
)

// MountPublic mounts public country routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	countriesGroup := r.Group("/countries")
	countriesGroup.GET("/all", handler.GetAllCountries)
	countriesGroup.GET("/regions", handler.GetRegionStats)
	countriesGroup.GET("/region/:region", handler.GetCountriesByRegion)
	countriesGroup.GET("/name/:name", handler.SearchCountriesByName)
	countriesGroup.GET("/alpha", handler.GetCountriesByCodes)
	countriesGroup.GET("/alpha/:code", handler.GetCountryByCode)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container, cfg *Config) {
	source := restcountries.New(cfg.BaseURL, restcountries.WithLogger(container.Logger))
	repo := NewRepository(source, container.NamespacedCache(cacheNamespace), cfg.CacheTTL, container.Logger)
	container.RegisterRepository(CountryRepoKey, repo)
	container.RegisterService(CountryServiceKey, NewService(repo))
}

// createHandler creates a handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	return NewHandler(container.GetService(CountryServiceKey).(Service))
}
