package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "registry")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "registry")
	t.Setenv("AUTH_ISSUER", "https://idp.example.com/realms/test")
	t.Setenv("AUTH_JWKS_URL", "https://idp.example.com/realms/test/certs")
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "6543")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.MetricsInterval)
	assert.Equal(t, "membership-service", cfg.Telemetry.ServiceName)
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
	assert.Contains(t, cfg.Database.DSN(), "dbname=registry")
}

func TestLoad_YAMLOverriddenByEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
database:
  host: from-file
  user: file-user
  password: file-pass
  name: file-db
auth:
  issuer: https://file-issuer
  jwks_url: https://file-issuer/certs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DB_HOST", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "file-user", cfg.Database.User)
	assert.Equal(t, "https://file-issuer", cfg.Auth.Issuer)
}

func TestLoad_MissingDatabaseSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_ISSUER", "https://idp")
	t.Setenv("AUTH_JWKS_URL", "https://idp/certs")
	t.Setenv("DB_HOST", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
