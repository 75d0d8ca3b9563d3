package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the behavior of the zap-backed logger.
type Config struct {
	// Level selects the minimum level that is emitted.
	// One of "debug", "info", "warning", "error". Defaults to "info".
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string `envconfig:"SERVICE_NAME" default:"pixvault"`
}
