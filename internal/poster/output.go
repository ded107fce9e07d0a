package poster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// outputFilename builds a timestamped, slug-safe path inside the posters
// directory, creating the directory if needed.
func outputFilename(dir, city, themeName, format string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create posters directory: %w", err)
	}

	slug := strings.ToLower(city)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, ",", "")
	slug = strings.ReplaceAll(slug, "'", "")

	name := fmt.Sprintf("%s_%s_%s.%s", slug, themeName, now.Format("20060102_150405"), strings.ToLower(format))
	return filepath.Join(dir, name), nil
}
