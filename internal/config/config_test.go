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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.rxreturn.io", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "credentials.json", filepath.Base(cfg.CredentialsFile))
	assert.Equal(t, ".rxreturn", filepath.Base(filepath.Dir(cfg.CredentialsFile)))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RXRETURN_BASE_URL", "https://staging.rxreturn.io")
	t.Setenv("RXRETURN_TIMEOUT", "5s")
	t.Setenv("RXRETURN_LOG_LEVEL", "debug")
	t.Setenv("RXRETURN_CREDENTIALS_FILE", "/tmp/creds.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.rxreturn.io", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/creds.json", cfg.CredentialsFile)
}

func TestLoad_ConfigEnvVarAppliesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxreturn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.rxreturn.io\n"), 0o644))
	t.Setenv("RXRETURN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://file.rxreturn.io", cfg.BaseURL)
}

func TestLoadWithFile_FileWins(t *testing.T) {
	t.Setenv("RXRETURN_BASE_URL", "https://env.rxreturn.io")

	path := filepath.Join(t.TempDir(), "rxreturn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.rxreturn.io\nlog_level: warn\n"), 0o644))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.rxreturn.io", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Fields the file omits keep their environment/default values.
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadWithFile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxreturn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0o644))

	_, err := LoadWithFile(path)
	require.Error(t, err)
}
