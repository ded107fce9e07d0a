package render

import (
	"fmt"
	"strings"

	"mapposter/internal/themes"
)

// roadStyle maps an OSM highway class onto the theme color and a line width
// in points. Wider and darker means more important.
func roadStyle(theme themes.Theme, highway string) (string, float64) {
	switch highway {
	case "motorway", "motorway_link":
		return theme.RoadMotorway, 1.2
	case "trunk", "trunk_link", "primary", "primary_link":
		return theme.RoadPrimary, 1.0
	case "secondary", "secondary_link":
		return theme.RoadSecondary, 0.8
	case "tertiary", "tertiary_link":
		return theme.RoadTertiary, 0.6
	case "residential", "living_street", "unclassified":
		return theme.RoadResidential, 0.4
	default:
		return theme.RoadDefault, 0.4
	}
}

// parseHexColor reads #RGB or #RRGGBB into 0..255 components.
func parseHexColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	default:
		err = fmt.Errorf("invalid hex color %q", s)
	}
	return r, g, b, err
}

// spacedUpper renders "Paris" as "P  A  R  I  S" for the title line.
func spacedUpper(s string) string {
	runes := []rune(strings.ToUpper(s))
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, "  ")
}

// titleSize shrinks the headline for long city names, never below 24pt.
func titleSize(city string) float64 {
	const base = 60.0
	n := len([]rune(city))
	if n <= 10 {
		return base
	}
	size := base * 10 / float64(n)
	if size < 24 {
		return 24
	}
	return size
}

// coordinateLine formats the center point as "48.8566° N / 2.3522° E".
func coordinateLine(lat, lon float64) string {
	hemNS := "N"
	if lat < 0 {
		hemNS = "S"
	}
	hemEW := "E"
	if lon < 0 {
		hemEW = "W"
	}
	abs := func(v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	}
	return fmt.Sprintf("%.4f° %s / %.4f° %s", abs(lat), hemNS, abs(lon), hemEW)
}
