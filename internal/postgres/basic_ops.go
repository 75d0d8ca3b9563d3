package postgres

import (
	"context"
)

// Find finds records that match the given conditions
func (p *Postgres) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).Find(dest, conditions...).Error
}

// First finds the first record that matches the given conditions
func (p *Postgres) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).First(dest, conditions...).Error
}

// Create creates a new record
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	return p.DB().WithContext(ctx).Create(value).Error
}

// Save updates a record
func (p *Postgres) Save(ctx context.Context, value interface{}) error {
	return p.DB().WithContext(ctx).Save(value).Error
}

// Update updates records that match the given condition
// model should be the model type (e.g., &Customer{})
// attrs should be a map, struct, or name/value pair to update
func (p *Postgres) Update(ctx context.Context, model interface{}, attrs interface{}) error {
	return p.DB().WithContext(ctx).Model(model).Updates(attrs).Error
}

// UpdateColumn updates a single column on records matching the model's primary key
func (p *Postgres) UpdateColumn(ctx context.Context, model interface{}, columnName string, value interface{}) error {
	return p.DB().WithContext(ctx).Model(model).Update(columnName, value).Error
}

// Delete deletes records that match the given conditions
func (p *Postgres) Delete(ctx context.Context, value interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).Delete(value, conditions...).Error
}

// Exec executes raw SQL
func (p *Postgres) Exec(ctx context.Context, sql string, values ...interface{}) error {
	return p.DB().WithContext(ctx).Exec(sql, values...).Error
}

// Raw runs a raw SQL query and scans the result into dest
func (p *Postgres) Raw(ctx context.Context, dest interface{}, sql string, values ...interface{}) error {
	return p.DB().WithContext(ctx).Raw(sql, values...).Scan(dest).Error
}

// Count counts records of the model that match the given condition
func (p *Postgres) Count(ctx context.Context, model interface{}, count *int64, condition string, args ...interface{}) error {
	tx := p.DB().WithContext(ctx).Model(model)
	if condition != "" {
		tx = tx.Where(condition, args...)
	}
	return tx.Count(count).Error
}
