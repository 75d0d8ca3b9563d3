package main

import (
	"log"

	"go.uber.org/fx"

	"github.com/pixvault/pixvault/internal/api"
	"github.com/pixvault/pixvault/internal/blob"
	"github.com/pixvault/pixvault/internal/config"
	"github.com/pixvault/pixvault/internal/ingest"
	"github.com/pixvault/pixvault/internal/logger"
	"github.com/pixvault/pixvault/internal/metrics"
	"github.com/pixvault/pixvault/internal/postgres"
	"github.com/pixvault/pixvault/internal/rabbit"
	"github.com/pixvault/pixvault/internal/search"
	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/tracer"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func(c config.Config) logger.Config { return c.Logger },
			func(c config.Config) postgres.Config { return c.Postgres },
			func(c config.Config) blob.Config { return c.Blob },
			func(c config.Config) vectorindex.Config { return c.VectorIndex },
			func(c config.Config) ingest.Config { return c.Ingest },
			func(c config.Config) metrics.Config { return c.Metrics },
			func(c config.Config) rabbit.Config { return c.Rabbit },
			func(c config.Config) tracer.Config { return c.Tracer },
			func(c config.Config) api.Config { return c.API },
		),
		fx.Provide(
			func(l *logger.Logger) postgres.Logger { return l },
			func(l *logger.Logger) store.Logger { return l },
			func(l *logger.Logger) blob.Logger { return l },
			func(l *logger.Logger) vectorindex.Logger { return l },
			func(l *logger.Logger) ingest.Logger { return l },
			func(l *logger.Logger) search.Logger { return l },
			func(l *logger.Logger) rabbit.Logger { return l },
			func(l *logger.Logger) tracer.Logger { return l },
		),
		fx.Provide(
			func(s *store.ImageStore) ingest.ImageRecords { return s },
			func(b blob.Store) ingest.BlobStore { return b },
			func(c *vectorindex.Client) ingest.Indexer { return c },
			func(m *metrics.Metrics) ingest.Metrics { return m },
			func(t *tracer.Tracer) ingest.Tracer { return t },
			func(m *metrics.Metrics) api.Metrics { return m },
			func(s *store.ImageStore) search.ImageRecords { return s },
			func(b blob.Store) search.BlobURLs { return b },
			func(rb *rabbit.Rabbit) ingest.DeadLetter {
				if rb == nil {
					return nil
				}
				return rb
			},
		),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		postgres.FXModule,
		store.FXModule,
		blob.FXModule,
		vectorindex.FXModule,
		rabbit.FXModule,
		ingest.FXModule,
		search.FXModule,
		api.FXModule,
	)

	app.Run()
}
