package rabbit

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides the optional RabbitMQ publisher and wires its
// reconnection loop into the application lifecycle. When publishing is
// disabled the provided client is nil and the hooks are no-ops.
var FXModule = fx.Module("rabbit",
	fx.Provide(NewClient),
	fx.Invoke(RegisterRabbitLifecycle),
)

// RegisterRabbitLifecycle starts the connection retry loop on application
// start and shuts the client down cleanly on stop.
func RegisterRabbitLifecycle(lc fx.Lifecycle, client *Rabbit, logger Logger, cfg Config) {
	if client == nil {
		return
	}

	wg := &sync.WaitGroup{}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)

			go func(logger Logger, cfg Config) {
				defer wg.Done()
				client.RetryConnection(logger, cfg)
			}(logger, cfg)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.gracefulShutdown()

			wg.Wait()
			return nil
		},
	})
}

func (rb *Rabbit) gracefulShutdown() {
	close(rb.shutdownSignal)
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.logger.Info("closing rabbit channel...", nil, nil)

	if rb.Channel != nil {
		if err := rb.Channel.Close(); err != nil {
			rb.logger.Error("error in closing rabbit channel", err, nil)
			return
		}
	}
	if rb.conn != nil && !rb.conn.IsClosed() {
		if err := rb.conn.Close(); err != nil {
			rb.logger.Error("error in closing rabbit connection", err, nil)
			return
		}
	}
}
