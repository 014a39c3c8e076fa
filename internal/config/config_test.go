package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "https://www.omdbapi.com/", cfg.OMDb.BaseURL)
	assert.Equal(t, OMDbModeLive, cfg.OMDb.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REELFINDER_OMDB_API_KEY", "from-env")
	t.Setenv("REELFINDER_OMDB_MODE", "static")
	t.Setenv("REELFINDER_SERVER_PORT", "9090")
	t.Setenv("REELFINDER_SESSIONS_IDLE_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OMDb.APIKey)
	assert.Equal(t, OMDbModeStatic, cfg.OMDb.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.IdleTTL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7070
  rate_limit:
    requests_per_second: 2.5
omdb:
  api_key: file-key
  timeout: 3
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.Server.RateLimit.Burst)
	assert.Equal(t, "file-key", cfg.OMDb.APIKey)
	assert.Equal(t, 3, cfg.OMDb.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("REELFINDER_OMDB_MODE", "carrier-pigeon")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid omdb.mode")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.OMDb.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.OMDb.Mode = OMDbModeStatic
	assert.NoError(t, cfg.Validate())

	cfg.Sessions.IdleTTL = 0
	assert.Error(t, cfg.Validate())
}
