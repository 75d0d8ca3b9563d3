package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Transaction executes the given function within a database transaction
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.DB().WithContext(ctx).Transaction(fn)
}
