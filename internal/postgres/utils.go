package postgres

import (
	"gorm.io/gorm"
)

// DB returns the currently active GORM DB client.
// This is for cases where direct access to GORM is needed.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}
