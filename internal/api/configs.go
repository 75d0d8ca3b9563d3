package api

// Config defines the configuration structure for the HTTP API server.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string `envconfig:"HTTP_ADDRESS" default:":8080"`

	// BodyLimit caps request body size, in echo's human-readable form.
	BodyLimit string `envconfig:"HTTP_BODY_LIMIT" default:"64M"`
}
