package countries

import (
	"errors"
	"time"

	"github.com/joefazee/globeguide/internal/restcountries"
)

type Config struct {
	BaseURL  string        `env:"COUNTRIES_BASE_URL" env-default:"https://restcountries.com/v3.1" validate:"required,url"`
	CacheTTL time.Duration `env:"COUNTRIES_CACHE_TTL" env-default:"10m"`
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("countries base url must be set")
	}
	if c.CacheTTL < 0 {
		return errors.New("countries cache ttl must not be negative")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		BaseURL:  restcountries.DefaultBaseURL,
		CacheTTL: 10 * time.Minute,
	}
}
