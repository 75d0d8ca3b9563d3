package store

import (
	"github.com/pixvault/pixvault/internal/postgres"
	"go.uber.org/fx"
)

// FXModule provides the stores and runs the schema migration on startup.
var FXModule = fx.Module("store",
	fx.Provide(
		NewSequenceGenerator,
		NewCustomerRegistry,
		NewImageStore,
	),
	fx.Invoke(RunMigrations),
)

// RunMigrations automigrates the package's models.
func RunMigrations(db *postgres.Postgres) error {
	return db.Migrate(Models()...)
}
