package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule wires the postgres client into an fx application.
// A postgres.Config and a postgres.Logger must be available in the container.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgres,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// RegisterPostgresLifecycle starts the connection monitor and retry goroutines
// on application start and stops them cleanly on shutdown.
func RegisterPostgresLifecycle(lifecycle fx.Lifecycle, pg *Postgres) {
	wg := &sync.WaitGroup{}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pg.MonitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				pg.RetryConnection(context.Background())
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			pg.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
