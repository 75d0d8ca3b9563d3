package postgres

import "time"

// Config contains everything needed to reach and pool connections to PostgreSQL.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection holds the PostgreSQL server coordinates and credentials.
type Connection struct {
	Host     string `envconfig:"PG_HOST" default:"localhost"`
	Port     string `envconfig:"PG_PORT" default:"5432"`
	User     string `envconfig:"PG_USER" default:"pixvault"`
	Password string `envconfig:"PG_PASSWORD" default:"pixvault"`
	DbName   string `envconfig:"PG_DBNAME" default:"pixvault"`
	SSLMode  string `envconfig:"PG_SSLMODE" default:"disable"`
}

// ConnectionDetails tunes the connection pool. Zero values fall back to
// package defaults (50 open, 25 idle, 1m lifetime).
type ConnectionDetails struct {
	MaxOpenConns    int           `envconfig:"PG_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `envconfig:"PG_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `envconfig:"PG_CONN_MAX_LIFETIME"`
}
