package rabbit

// Config defines the configuration structure for the RabbitMQ publisher.
// Publishing is optional. When Enabled is false the application runs without
// a broker and failed index tasks are only logged and counted.
type Config struct {
	Enabled    bool `envconfig:"RABBIT_ENABLED" default:"false"`
	Connection Connection
	Channel    Channel
}

// Connection holds the parameters for dialing the RabbitMQ server.
type Connection struct {
	Host     string `envconfig:"RABBIT_HOST" default:"localhost"`
	Port     uint   `envconfig:"RABBIT_PORT" default:"5672"`
	User     string `envconfig:"RABBIT_USER" default:"guest"`
	Password string `envconfig:"RABBIT_PASSWORD" default:"guest"`
}

// Channel holds the exchange, queue and publishing settings.
type Channel struct {
	ExchangeName string `envconfig:"RABBIT_EXCHANGE_NAME" default:"pixvault.index"`
	ExchangeType string `envconfig:"RABBIT_EXCHANGE_TYPE" default:"direct"`
	RoutingKey   string `envconfig:"RABBIT_ROUTING_KEY" default:"index.failed"`
	QueueName    string `envconfig:"RABBIT_QUEUE_NAME" default:"pixvault.index.failed"`
	ContentType  string `envconfig:"RABBIT_CONTENT_TYPE" default:"application/json"`
}
