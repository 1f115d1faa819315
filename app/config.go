package app

import (
	"github.com/joefazee/globeguide/app/countries"
	"github.com/joefazee/globeguide/app/database"
	"github.com/joefazee/globeguide/app/user"
	"github.com/joefazee/globeguide/internal/cache"
	"github.com/joefazee/globeguide/internal/nexus"
)

type Config struct {
	DB        database.Config
	User      user.Config
	Countries countries.Config
	Redis     cache.RedisOptions

	CacheBackend string `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=memory redis"`

	AppHost  string `env:"APP_HOST" env-default:"localhost"`
	AppPort  string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	// PublicURL is advertised in the API docs outside development.
	PublicURL string `env:"APP_PUBLIC_URL"`
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.AppPort
}

// CacheOptions selects the shared cache backend.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.CacheBackend, Redis: &c.Redis}
}

// LoadConfig loads the application configuration from environment variables
// or the file named by CONFIG_FILE.
func LoadConfig(opts ...nexus.LoaderOption) (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader(opts...).Load(c)
	return c, err
}
