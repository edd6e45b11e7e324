package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, env := range []string{"CONFIG_PATH", "PORT", "CORS_ORIGINS", "ALGOD_URL", "INDEXER_TIMEOUT", "CONFIRM_ROUNDS", "FETCH_CONCURRENCY", "JOURNAL_ENABLED", "LOG_LEVEL"} {
		t.Setenv(env, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOriginList())
	assert.Equal(t, "https://testnet-api.algonode.cloud", cfg.Algod.URL)
	assert.Equal(t, 15*time.Second, cfg.Indexer.Timeout)
	assert.EqualValues(t, 4, cfg.Reservation.ConfirmRounds)
	assert.Equal(t, 8, cfg.Reservation.FetchConcurrency)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  cors_origins: "https://a.example, https://b.example"
indexer:
  url: http://localhost:8980
reservation:
  min_round: 21540981
log:
  level: debug
`), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ALGOD_TOKEN", "secret")
	t.Setenv("JOURNAL_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOriginList())
	assert.Equal(t, "http://localhost:8980", cfg.Indexer.URL)
	assert.EqualValues(t, 21540981, cfg.Reservation.MinRound)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "secret", cfg.Algod.Token)
	assert.True(t, cfg.Database.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Algod: NodeConfig{URL: "x"}, Indexer: NodeConfig{URL: ""}}
	require.Error(t, cfg.Validate())
	cfg.Indexer.URL = "y"
	require.NoError(t, cfg.Validate())
}

func TestResolveMySQLDSN(t *testing.T) {
	t.Setenv("MYSQL_URL", "mysql://app:pw@db.internal/journal")
	t.Setenv("DATABASE_URL", "")
	dsn, err := resolveMySQLDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:pw@tcp(db.internal:3306)/journal?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	t.Setenv("MYSQL_URL", "mysql://app:pw@db.internal/")
	_, err = resolveMySQLDSN()
	require.Error(t, err)

	t.Setenv("MYSQL_URL", "")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASS", "p")
	t.Setenv("DB_HOST", "10.0.0.5")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "hc")
	dsn, err = resolveMySQLDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "u:p@tcp(10.0.0.5:3307)/hc?")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
