package vectorindex

import (
	"fmt"
	"time"
)

// Config holds the coordinates of the external indexing service.
//
// The service is an opaque HTTP sidecar that computes vector embeddings for
// images and serves similarity search over them. This package only speaks its
// wire contract; the embedding algorithm is not our concern.
type Config struct {
	// Endpoint is the base URL of the indexing service, e.g. "http://localhost:5001".
	Endpoint string `envconfig:"INDEX_ENDPOINT" default:"http://localhost:5001"`

	// Timeout bounds every call to the service. Batch add and reload can be
	// slow on large indexes, hence the generous default.
	Timeout time.Duration `envconfig:"INDEX_TIMEOUT" default:"60s"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("vectorindex: missing INDEX_ENDPOINT")
	}
	return nil
}
