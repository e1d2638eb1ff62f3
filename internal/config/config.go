// Package config loads server settings from the environment.
package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/caravangame/caravan-api/internal/errors"
)

// Config holds the server's runtime settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"CARAVAN_ADDR" envDefault:":8080"`

	// RedisEndpoint is the address of the Redis instance backing saves.
	RedisEndpoint string `env:"CARAVAN_REDIS_ENDPOINT" envDefault:"localhost:6379"`

	// CatalogPath optionally points at a YAML overlay applied on top of
	// the built-in catalog.
	CatalogPath string `env:"CARAVAN_CATALOG_PATH"`

	// ShutdownGraceSeconds bounds how long in-flight requests get on
	// shutdown.
	ShutdownGraceSeconds int `env:"CARAVAN_SHUTDOWN_GRACE_SECONDS" envDefault:"10"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	return cfg, nil
}
