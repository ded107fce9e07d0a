// Package themes loads poster color themes. Built-in themes ship embedded in
// the binary; files in the themes directory override them by name.
package themes

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Theme holds every color the renderer needs. All values are hex strings.
type Theme struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Bg              string `json:"bg"`
	Text            string `json:"text"`
	GradientColor   string `json:"gradient_color"`
	Water           string `json:"water"`
	Parks           string `json:"parks"`
	RoadMotorway    string `json:"road_motorway"`
	RoadPrimary     string `json:"road_primary"`
	RoadSecondary   string `json:"road_secondary"`
	RoadTertiary    string `json:"road_tertiary"`
	RoadResidential string `json:"road_residential"`
	RoadDefault     string `json:"road_default"`
}

// Default is the fallback used when a theme is missing or unreadable.
func Default() Theme {
	return Theme{
		Name:            "Feature-Based Shading (fallback)",
		Bg:              "#FFFFFF",
		Text:            "#000000",
		GradientColor:   "#FFFFFF",
		Water:           "#C0C0C0",
		Parks:           "#F0F0F0",
		RoadMotorway:    "#0A0A0A",
		RoadPrimary:     "#1A1A1A",
		RoadSecondary:   "#2A2A2A",
		RoadTertiary:    "#3A3A3A",
		RoadResidential: "#4A4A4A",
		RoadDefault:     "#3A3A3A",
	}
}

type Loader struct {
	dir string
	log *zap.Logger
}

// NewLoader creates a loader that prefers files in dir over embedded themes.
func NewLoader(dir string, log *zap.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load returns the named theme. It never fails: an unknown or unreadable
// theme logs a warning and returns the built-in fallback.
func (l *Loader) Load(name string) Theme {
	if data, err := os.ReadFile(filepath.Join(l.dir, name+".json")); err == nil {
		return l.parse(name, data)
	}
	if data, err := builtinFS.ReadFile("builtin/" + name + ".json"); err == nil {
		return l.parse(name, data)
	}

	l.log.Warn("theme not found, using fallback",
		zap.String("theme", name), zap.Strings("available", l.Available()))
	return Default()
}

func (l *Loader) parse(name string, data []byte) Theme {
	var theme Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		l.log.Warn("theme unreadable, using fallback", zap.String("theme", name), zap.Error(err))
		return Default()
	}
	if theme.Name == "" {
		theme.Name = name
	}
	l.log.Info("theme loaded", zap.String("theme", theme.Name))
	return theme
}

// Available lists theme names (without extension), embedded and on-disk
// combined, sorted and deduplicated.
func (l *Loader) Available() []string {
	seen := map[string]bool{}

	if entries, err := builtinFS.ReadDir("builtin"); err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".json")] = true
		}
	}
	if entries, err := os.ReadDir(l.dir); err == nil {
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".json") {
				seen[strings.TrimSuffix(e.Name(), ".json")] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the display name and description for listing.
func (l *Loader) Describe(name string) (string, string) {
	theme := l.Load(name)
	return theme.Name, theme.Description
}
