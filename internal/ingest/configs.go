package ingest

import "time"

// Config defines the configuration structure for the ingestion pipeline's
// background worker pool.
type Config struct {
	// Workers bounds the number of in-flight background indexing tasks so
	// an upload burst cannot overwhelm the external indexing service.
	Workers int `envconfig:"INGEST_WORKERS" default:"4"`

	// TaskTimeout caps how long a single background indexing task may run
	// before it is marked failed instead of left pending indefinitely.
	TaskTimeout time.Duration `envconfig:"INGEST_TASK_TIMEOUT" default:"60s"`
}
