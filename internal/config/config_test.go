package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TAIMIO_API_ROOT", "TAIMIO_TOKEN_FILE", "TAIMIO_PROJECTS_FILE", "TAIMIO_CLIENT_SIDE_FILTER", "TAIMIO_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.taim.io", cfg.APIRoot)
	assert.Equal(t, "projects", cfg.ProjectsFile)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.ClientSideFilter)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "taimio-report", "token"), cfg.TokenFile)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
api_root: "http://api.tiima.dev"
projects_file: "/etc/taimio/projects"
client_side_filter: true
timeout: 5s
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.tiima.dev", cfg.APIRoot)
	assert.Equal(t, "/etc/taimio/projects", cfg.ProjectsFile)
	assert.True(t, cfg.ClientSideFilter)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	t.Setenv("TAIMIO_API_ROOT", "http://localhost:9000")
	t.Setenv("TAIMIO_CLIENT_SIDE_FILTER", "false")
	t.Setenv("TAIMIO_TIMEOUT", "not a duration")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.APIRoot)
	assert.False(t, cfg.ClientSideFilter)
	assert.Equal(t, 5*time.Second, cfg.Timeout, "unparsable env values are ignored")
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("api_root: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
