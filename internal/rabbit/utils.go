package rabbit

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publish sends a message to the failure exchange using the configured
// routing key. Messages are published persistent so they survive a broker
// restart.
func (rb *Rabbit) Publish(ctx context.Context, msg []byte) error {
	select {
	case <-ctx.Done():
		rb.logger.Error("context error for publishing msg into rabbit", ctx.Err(), nil)
		return ctx.Err()
	default:
		rb.mu.RLock()
		err := rb.Channel.PublishWithContext(ctx,
			rb.cfg.Channel.ExchangeName,
			rb.cfg.Channel.RoutingKey,
			false, // Mandatory
			false, // Immediate
			amqp.Publishing{
				ContentType:  rb.cfg.Channel.ContentType,
				DeliveryMode: amqp.Persistent,
				Body:         msg,
			},
		)
		rb.mu.RUnlock()

		if err == nil {
			return nil
		}
		rb.logger.Error("error in publishing msg into rabbit", err, nil)
		return err
	}
}
