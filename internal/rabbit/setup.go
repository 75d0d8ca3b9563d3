package rabbit

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger defines the interface for logging operations in the rabbit package.
// This interface allows the package to use any logging implementation that
// conforms to these methods.
type Logger interface {
	// Info logs informational messages, optionally with error and contextual fields
	Info(msg string, err error, fields ...map[string]interface{})

	// Debug logs debug-level messages, optionally with error and contextual fields
	Debug(msg string, err error, fields ...map[string]interface{})

	// Warn logs warning messages, optionally with error and contextual fields
	Warn(msg string, err error, fields ...map[string]interface{})

	// Error logs error messages with the associated error and optional contextual fields
	Error(msg string, err error, fields ...map[string]interface{})

	// Fatal logs critical errors that should terminate the application
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Rabbit is a publish-only RabbitMQ client. It owns a single connection and
// channel, declares the failure exchange and queue on startup, and reconnects
// automatically when the connection drops.
type Rabbit struct {
	cfg Config

	// Channel is the AMQP channel used for publishing. It is exposed
	// publicly to allow direct operations when needed.
	Channel *amqp.Channel

	conn *amqp.Connection

	logger Logger

	// mu protects concurrent access to connection and channel
	mu sync.RWMutex

	// shutdownSignal is closed when the client is being shut down
	shutdownSignal chan struct{}
}

// NewClient creates and initializes a new RabbitMQ publisher with the
// provided configuration. It establishes the connection, opens a channel in
// confirm mode and declares the failure exchange, queue and binding.
//
// Returns nil when publishing is disabled in the configuration. Callers must
// nil-check before publishing.
func NewClient(config Config, logger Logger) (*Rabbit, error) {
	if !config.Enabled {
		logger.Info("rabbit publishing disabled, failed index tasks will only be logged", nil, nil)
		return nil, nil
	}

	con, err := newConnection(config, logger)
	if err != nil {
		return nil, err
	}

	ch, err := connectToChannel(con, config, logger)
	if err != nil {
		_ = con.Close()
		return nil, err
	}

	return &Rabbit{
		cfg:            config,
		conn:           con,
		Channel:        ch,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
	}, nil
}

// connectToChannel opens a channel in confirm mode and declares the failure
// exchange, queue and binding so that publishes never race the topology.
func connectToChannel(rb *amqp.Connection, cfg Config, logger Logger) (*amqp.Channel, error) {
	ch, err := rb.Channel()
	if err != nil {
		logger.Error("failed to create channel", err, nil)
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		logger.Error("failed to enable publisher confirms", err, nil)
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Channel.ExchangeName,
		cfg.Channel.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to declare exchange", err, map[string]interface{}{
			"exchange": cfg.Channel.ExchangeName,
		})
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Channel.QueueName,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to declare queue", err, map[string]interface{}{
			"queue": cfg.Channel.QueueName,
		})
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(
		cfg.Channel.QueueName,
		cfg.Channel.RoutingKey,
		cfg.Channel.ExchangeName,
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		logger.Error("failed to bind queue", err, map[string]interface{}{
			"queue":    cfg.Channel.QueueName,
			"exchange": cfg.Channel.ExchangeName,
		})
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return ch, nil
}

// RetryConnection continuously monitors the RabbitMQ connection and
// automatically re-establishes it if it fails. This method is typically run
// in a goroutine and exits when the shutdown signal is received.
func (rb *Rabbit) RetryConnection(logger Logger, cfg Config) {
outerLoop:
	for {
		errChan := make(chan *amqp.Error, 1)
		rb.conn.NotifyClose(errChan)

		select {
		case <-rb.shutdownSignal:
			logger.Info("Stopping RetryConnection loop due to shutdown signal", nil, nil)
			return

		case err := <-errChan:
			logger.Warn("RabbitMQ connection closed, retrying...", err, nil)
		reconnectLoop:
			for {
				select {
				case <-rb.shutdownSignal:
					logger.Info("Stopping RetryConnection loop due to shutdown signal inside reconnect", nil, nil)
					return
				default:
					newConn, err := newConnection(cfg, logger)
					if err != nil {
						logger.Error("Reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					rb.mu.Lock()
					rb.conn = newConn
					if rb.Channel != nil {
						_ = rb.Channel.Close()
					}
					rb.Channel, err = connectToChannel(newConn, cfg, logger)
					rb.mu.Unlock()

					if err != nil {
						logger.Error("Failed to reopen channel, retrying...", err, nil)
						continue reconnectLoop
					}

					logger.Info("Reconnected to RabbitMQ", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// newConnection establishes a connection to the RabbitMQ server. All
// connections use a 2-second heartbeat interval to detect disconnections
// quickly.
func newConnection(cfg Config, logger Logger) (*amqp.Connection, error) {
	logger.Info("Connecting to Rabbit", nil, nil)

	hostURL := fmt.Sprintf("amqp://%v:%v@%v:%v", cfg.Connection.User, cfg.Connection.Password, cfg.Connection.Host, cfg.Connection.Port)
	conn, err := amqp.DialConfig(hostURL, amqp.Config{
		Heartbeat: 2 * time.Second,
	})
	if err != nil {
		logger.Error("error in connecting to rabbit", err, map[string]interface{}{
			"rabbit_host": cfg.Connection.Host,
			"rabbit_port": cfg.Connection.Port,
		})
		return nil, fmt.Errorf("failed to connect to Rabbit: %w", err)
	}

	logger.Info("Connected to Rabbit", nil, map[string]interface{}{
		"rabbit_host": cfg.Connection.Host,
		"rabbit_port": cfg.Connection.Port,
	})
	return conn, nil
}
