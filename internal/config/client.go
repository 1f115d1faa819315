// Package config holds the settings of the globeguide terminal client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joefazee/globeguide/internal/nexus"
)

const dirName = ".globeguide"

// Client is read from the environment only; the client has no config file.
type Client struct {
	APIURL string `env:"GLOBEGUIDE_API_URL" env-default:"http://localhost:8080" validate:"required,url"`
	// CountriesURL defaults to the API's country proxy.
	CountriesURL string `env:"GLOBEGUIDE_COUNTRIES_URL" validate:"omitempty,url"`
	SessionFile  string `env:"GLOBEGUIDE_SESSION_FILE"`
	LogFile      string `env:"GLOBEGUIDE_LOG_FILE"`
	LogLevel     string `env:"GLOBEGUIDE_LOG_LEVEL" env-default:"info" validate:"oneof=debug info error off"`
}

// LoadClient reads and validates the client settings, then fills in the
// values derived from others.
func LoadClient(opts ...nexus.LoaderOption) (*Client, error) {
	c := &Client{}
	opts = append([]nexus.LoaderOption{nexus.WithOnlyEnvironment()}, opts...)
	if err := nexus.NewLoader(opts...).Load(c); err != nil {
		return nil, err
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) resolve() error {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.CountriesURL == "" {
		c.CountriesURL = c.APIURL + "/api/v1/countries"
	}
	c.CountriesURL = strings.TrimRight(c.CountriesURL, "/")

	if c.SessionFile != "" && c.LogFile != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("config: locate home directory: %w", err)
	}
	if c.SessionFile == "" {
		c.SessionFile = filepath.Join(home, dirName, "session.json")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(home, dirName, "client.log")
	}
	return nil
}
