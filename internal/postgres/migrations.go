package postgres

// Migrate runs database migrations for the provided models
func (p *Postgres) Migrate(models ...interface{}) error {
	return p.DB().AutoMigrate(models...)
}
