package tracer

// Config defines the configuration structure for the OpenTelemetry tracer.
type Config struct {
	// ServiceName identifies this service in exported traces.
	ServiceName string `envconfig:"TRACER_SERVICE_NAME" default:"pixvault"`

	// AppEnv is the deployment environment tag attached to every span,
	// e.g. "development" or "production".
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	// EnableExport controls whether spans are exported over OTLP HTTP.
	// The exporter endpoint is taken from the standard OTEL_EXPORTER_OTLP_*
	// environment variables.
	EnableExport bool `envconfig:"TRACER_ENABLE_EXPORT" default:"false"`
}
