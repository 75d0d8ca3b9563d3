// Package config aggregates every component's configuration and loads it
// from the environment in one pass.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/pixvault/pixvault/internal/api"
	"github.com/pixvault/pixvault/internal/blob"
	"github.com/pixvault/pixvault/internal/ingest"
	"github.com/pixvault/pixvault/internal/logger"
	"github.com/pixvault/pixvault/internal/metrics"
	"github.com/pixvault/pixvault/internal/postgres"
	"github.com/pixvault/pixvault/internal/rabbit"
	"github.com/pixvault/pixvault/internal/tracer"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// Config is the whole application configuration. Every field is populated
// from environment variables via the envconfig tags declared next to each
// component.
type Config struct {
	Logger      logger.Config
	Postgres    postgres.Config
	Blob        blob.Config
	VectorIndex vectorindex.Config
	Ingest      ingest.Config
	Metrics     metrics.Config
	Rabbit      rabbit.Config
	Tracer      tracer.Config
	API         api.Config
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("pixvault", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c Config) Validate() error {
	if err := c.VectorIndex.Validate(); err != nil {
		return err
	}
	switch c.Blob.Driver {
	case blob.DriverDisk, blob.DriverMinio:
	default:
		return fmt.Errorf("invalid blob driver %q", c.Blob.Driver)
	}
	return nil
}
