// Package fonts loads the poster typefaces once at startup into an explicit
// holder that gets passed to the renderer. No package-level state: a missing
// font directory is a visible error the caller decides how to handle.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Set holds the parsed Roboto family used for poster typography.
type Set struct {
	Bold    *opentype.Font
	Regular *opentype.Font
	Light   *opentype.Font
}

// Load parses the three weights from dir. It returns an error naming every
// missing file; callers typically log it and render with the built-in
// fallback face instead.
func Load(dir string) (*Set, error) {
	files := map[string]string{
		"bold":    filepath.Join(dir, "Roboto-Bold.ttf"),
		"regular": filepath.Join(dir, "Roboto-Regular.ttf"),
		"light":   filepath.Join(dir, "Roboto-Light.ttf"),
	}

	parsed := map[string]*opentype.Font{}
	var missing []string
	for weight, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		parsed[weight] = f
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing font files: %v", missing)
	}

	return &Set{
		Bold:    parsed["bold"],
		Regular: parsed["regular"],
		Light:   parsed["light"],
	}, nil
}

// Face builds a render face at the given point size and DPI.
func Face(f *opentype.Font, size float64, dpi int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     float64(dpi),
		Hinting: font.HintingFull,
	})
}
