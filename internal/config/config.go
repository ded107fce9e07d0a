package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	CacheDir     string
	PostersDir   string
	RegistryFile string
	ThemesDir    string
	FontsDir     string
	LogLevel     string
	GeocoderURL  string
	OverpassURL  string
}

func Load() *Config {
	rootDir := getEnv("MAPPOSTER_ROOT", ".")

	cfg := &Config{
		CacheDir:     getEnv("CACHE_DIR", filepath.Join(rootDir, ".cache")),
		PostersDir:   getEnv("POSTERS_DIR", filepath.Join(rootDir, "posters")),
		RegistryFile: getEnv("REGISTRY_FILE", filepath.Join(rootDir, "generated_posters.json")),
		ThemesDir:    getEnv("THEMES_DIR", filepath.Join(rootDir, "themes")),
		FontsDir:     getEnv("FONTS_DIR", filepath.Join(rootDir, "fonts")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		GeocoderURL:  getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		OverpassURL:  getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
