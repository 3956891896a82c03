package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps a developer's own .tagextract.yaml out of the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TAGEXTRACT_TAB_WIDTH", "2")
	t.Setenv("TAGEXTRACT_STRATEGY", "checkbox")
	t.Setenv("TAGEXTRACT_SERVER_PORT", "9000")
	t.Setenv("TAGEXTRACT_SERVER_API_KEY", "secret")
	t.Setenv("TAGEXTRACT_WATCH_DEBOUNCE", "1s")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.TabWidth)
	assert.Equal(t, "checkbox", cfg.Strategy)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := "dialect: zim\nbatch:\n  workers: 8\nserver:\n  cache_size: 16\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "zim", cfg.Dialect)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 16, cfg.Server.CacheSize)
	assert.Equal(t, 4, cfg.TabWidth)
}

func TestLoad_DiscoveredFileEnvWins(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".tagextract.yaml", []byte("tab_width: 8\nstrategy: checkbox\n"), 0o644))
	t.Setenv("TAGEXTRACT_TAB_WIDTH", "3")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TabWidth)
	assert.Equal(t, "checkbox", cfg.Strategy)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tab width", func(c *Config) { c.TabWidth = 0 }},
		{"unknown strategy", func(c *Config) { c.Strategy = "bogus" }},
		{"unknown dialect", func(c *Config) { c.Dialect = "rst" }},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"no cache", func(c *Config) { c.Server.CacheSize = -1 }},
		{"no upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Dialect = "zim"
	assert.NoError(t, cfg.Validate())
}
