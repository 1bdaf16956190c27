package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every pending up migration for the database's dialect.
func (d *Database) Migrate(pgCfg config.PostgresConfig) error {
	src, err := iofs.New(migrations, "migrations/"+d.Driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var m *migrate.Migrate
	switch d.Driver {
	case config.DriverPostgres:
		m, err = migrate.NewWithSourceInstance("iofs", src, pgCfg.URL())
		if err != nil {
			return fmt.Errorf("failed to initialize migration instance: %w", err)
		}
		defer func() {
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				log.Warn().AnErr("source_err", srcErr).AnErr("db_err", dbErr).Msg("Failed to close migration instance")
			}
		}()
	case config.DriverSQLite:
		// The driver wraps our own *sql.DB; closing the migrate instance
		// would close it too, so it is left open on purpose.
		driver, err := migratesqlite.WithInstance(d.DB.DB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			return fmt.Errorf("failed to initialize migration instance: %w", err)
		}
	default:
		return fmt.Errorf("no migrations for driver %q", d.Driver)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info().Str("driver", d.Driver).Msg("New migrations applied successfully")
	return nil
}
