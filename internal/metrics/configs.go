package metrics

// DefaultMetricsAddress is used when no address is configured.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration structure for the Prometheus metrics server.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens, e.g. ":9090".
	Address string `envconfig:"METRICS_ADDRESS" default:":9090"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are automatically registered.
	EnableDefaultCollectors bool `envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS" default:"true"`

	// ServiceName identifies the service exposing metrics. It is attached
	// as a constant label to every metric.
	ServiceName string `envconfig:"METRICS_SERVICE_NAME" default:"pixvault"`
}
