package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/config"
)

// Database is the handle repositories are built on, whatever the driver.
type Database struct {
	*sqlx.DB
	Driver string

	postgres *Postgres
}

// Open connects to the configured datastore and, when enabled, brings the
// schema up to date.
func Open(ctx context.Context, cfg *config.Config) (*Database, error) {
	var database *Database

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		database = &Database{DB: pg.SQLX(), Driver: config.DriverPostgres, postgres: pg}
	case config.DriverSQLite:
		sqliteDB, err := NewSQLite(cfg.Database.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dsn", cfg.Database.SQLiteDSN).Msg("Opened SQLite database")
		database = &Database{DB: sqliteDB, Driver: config.DriverSQLite}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Postgres); err != nil {
			database.Close()
			return nil, err
		}
	}

	return database, nil
}

func (d *Database) Ping(ctx context.Context) error {
	if d.postgres != nil {
		return d.postgres.Ping(ctx)
	}
	return d.DB.PingContext(ctx)
}

func (d *Database) Close() {
	if err := d.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close sql handle")
	}
	if d.postgres != nil {
		d.postgres.Close()
	}
}
