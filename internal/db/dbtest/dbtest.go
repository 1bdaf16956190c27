// Package dbtest provides throwaway databases for package tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/eventhub/internal/config"
	"github.com/vasiliy-maslov/eventhub/internal/db"
)

const memoryDSN = "file::memory:?_foreign_keys=on"

// NewSQLite returns a private in-memory SQLite database with the production
// migrations applied. It is closed when the test finishes.
func NewSQLite(t testing.TB) *db.Database {
	t.Helper()

	sqliteDB, err := db.NewSQLite(memoryDSN)
	require.NoError(t, err, "open in-memory sqlite")

	database := &db.Database{DB: sqliteDB, Driver: config.DriverSQLite}
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(config.PostgresConfig{}), "migrate in-memory sqlite")

	return database
}
