package config_test

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/eventhub/internal/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.MaxConnLifetime)
	assert.True(t, cfg.IsDevelopment())
}

func TestNewConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  port: "9000"
  shutdown_timeout: 5s
database:
  driver: sqlite3
  sqlite_dsn: "file::memory:"
rate_limit:
  rps: 3
  burst: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test/, http://b.test")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.SQLiteDSN)
	assert.Equal(t, 3.0, cfg.RateLimit.RPS)
	assert.Equal(t, 6, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestNewConfig_InvalidNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_MAX_CONNS", "many")

	cfg, err := config.NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
	assert.Nil(t, cfg)
}

func TestConfig_Validate(t *testing.T) {
	cfg := config.Config{
		App:      config.AppConfig{Port: "8080"},
		Database: config.DatabaseConfig{Driver: "oracle"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported DB_DRIVER "oracle"`)

	cfg.Database.Driver = config.DriverPostgres
	cfg.Postgres = config.PostgresConfig{Host: "db", User: "postgres", DBName: "events", MinConns: 5, MaxConns: 2}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MIN_CONNS")
}

func TestPostgresConfig_URL(t *testing.T) {
	p := config.PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "events", SSLMode: "disable"}
	assert.Equal(t, "pgx5://u:p@db:5432/events?sslmode=disable", p.URL())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=events sslmode=disable", p.ConnString())

	// пароль со спецсимволами не должен ломать DSN
	p.User = "app"
	p.Password = "p@ss/w#rd:%"
	parsed, err := url.Parse(p.URL())
	require.NoError(t, err)
	assert.Equal(t, "pgx5", parsed.Scheme)
	assert.Equal(t, "db", parsed.Hostname())
	assert.Equal(t, "5432", parsed.Port())
	assert.Equal(t, "/events", parsed.Path)
	assert.Equal(t, "app", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss/w#rd:%", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))

	p.Password = `it's a \secret`
	assert.Equal(t, `host=db port=5432 user=app password='it\'s a \\secret' dbname=events sslmode=disable`, p.ConnString())

	p.Password = ""
	assert.Contains(t, p.ConnString(), "password='' ")
}
