package ingest

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides the worker pool, the ingestion pipeline and the deletion
// synchronizer, and drains in-flight background tasks on shutdown.
var FXModule = fx.Module("ingest",
	fx.Provide(
		NewPool,
		NewPipeline,
		NewSynchronizer,
	),
	fx.Invoke(RegisterPoolLifecycle),
)

// RegisterPoolLifecycle waits for submitted background indexing tasks to
// finish before the process exits.
func RegisterPoolLifecycle(lc fx.Lifecycle, pool *Pool, logger Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("draining background indexing tasks...", nil, nil)
			pool.Drain()
			return nil
		},
	})
}
