package deps

import (
	"gorm.io/gorm"

	"github.com/joefazee/globeguide/internal/cache"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/security"
)

// Container holds all shared dependencies
type Container struct {
	DB         *gorm.DB
	TokenMaker security.Maker
	Sanitizer  sanitizer.HTMLStripperer
	Logger     logger.Logger
	// Cache is shared by modules; each module works in its own namespace.
	Cache cache.Cache[[]byte]

	// Store repositories as interfaces to avoid imports
	repositories map[string]interface{}
	services     map[string]interface{}
}

func NewContainer(db *gorm.DB,
	tokenMaker security.Maker,
	sanitizer sanitizer.HTMLStripperer,
	log logger.Logger,
	c cache.Cache[[]byte]) *Container {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Container{
		DB:           db,
		TokenMaker:   tokenMaker,
		Sanitizer:    sanitizer,
		Logger:       log,
		Cache:        c,
		repositories: make(map[string]interface{}),
		services:     make(map[string]interface{}),
	}
}

// RegisterRepository stores a repository with a key
func (c *Container) RegisterRepository(key string, repo interface{}) {
	c.repositories[key] = repo
}

// GetRepository retrieves a repository by key
func (c *Container) GetRepository(key string) interface{} {
	return c.repositories[key]
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	return c.services[key]
}

// NamespacedCache returns the shared cache scoped to prefix.
func (c *Container) NamespacedCache(prefix string) cache.Cache[[]byte] {
	return cache.Namespaced(c.Cache, prefix)
}
