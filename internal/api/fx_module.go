package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/pixvault/pixvault/internal/logger"
)

// FXModule provides the HTTP server and ties its lifetime to the
// application lifecycle.
var FXModule = fx.Module("api",
	fx.Provide(NewServer),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts the HTTP server in a background goroutine
// on application start and shuts it down gracefully on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting HTTP server", nil, map[string]interface{}{
					"address": s.cfg.Address,
				})

				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server", nil, nil)
			return s.Shutdown(ctx)
		},
	})
}
