package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

type Config struct {
	SymmetricKey   string        `env:"SYMMETRIC_KEY" validate:"required,len=32"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"24h"`
}

func (c *Config) Validate() error {
	if c.SymmetricKey == "" {
		return errors.New("symmetric key must be set")
	}
	if len(c.SymmetricKey) != chacha20poly1305.KeySize {
		return errors.New("symmetric key must be exactly 32 characters")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access token ttl must be positive")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		SymmetricKey:   "f3a9c1e7b2d84f60a5c3e9d1b7f2a4c8",
		AccessTokenTTL: 24 * time.Hour,
	}
}
