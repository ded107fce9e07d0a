package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"mapposter/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, filepath.Join(".", ".cache"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(".", "posters"), cfg.PostersDir)
	assert.Equal(t, filepath.Join(".", "generated_posters.json"), cfg.RegistryFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.GeocoderURL)
	assert.NotEmpty(t, cfg.OverpassURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAPPOSTER_ROOT", "/srv/posters")
	t.Setenv("CACHE_DIR", "/tmp/mapcache")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.Load()

	assert.Equal(t, "/tmp/mapcache", cfg.CacheDir)
	assert.Equal(t, filepath.Join("/srv/posters", "posters"), cfg.PostersDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}
