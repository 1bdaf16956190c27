package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/eventhub/internal/config"
	"github.com/vasiliy-maslov/eventhub/internal/db"
	"github.com/vasiliy-maslov/eventhub/internal/db/dbtest"
)

func TestMigrate_SQLiteCreatesSchema(t *testing.T) {
	database := dbtest.NewSQLite(t)

	var tables []string
	err := database.SelectContext(context.Background(), &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'events') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "users"}, tables)

	require.NoError(t, database.Ping(context.Background()))
}

func TestMigrate_SecondRunIsNoop(t *testing.T) {
	database := dbtest.NewSQLite(t)

	require.NoError(t, database.Migrate(config.PostgresConfig{}))
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:    config.DriverSQLite,
			SQLiteDSN: "file::memory:?_foreign_keys=on",
			Migrate:   true,
		},
	}

	database, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, config.DriverSQLite, database.Driver)

	var count int
	require.NoError(t, database.GetContext(context.Background(), &count, `SELECT COUNT(*) FROM users`))
	assert.Zero(t, count)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
