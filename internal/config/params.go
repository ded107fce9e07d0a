package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Distance bounds in meters. Requests outside this range are clamped, not
// rejected, so a preset multiplier can never push a fetch off the rails.
const (
	MinDistanceMeters = 1500
	MaxDistanceMeters = 60000
)

const DefaultSize = "default"

// SizePreset describes one named output size. Pixel presets are converted to
// inches at the effective DPI; the default preset is defined in inches
// directly. DistanceMult scales the fetch radius so larger canvases show a
// proportionally larger slice of the city.
type SizePreset struct {
	PixelsW      int
	PixelsH      int
	WidthInches  float64
	HeightInches float64
	DistanceMult float64
}

var sizePresets = map[string]SizePreset{
	"default":         {WidthInches: 12, HeightInches: 16, DistanceMult: 1.0},
	"desktop-fhd":     {PixelsW: 1920, PixelsH: 1080, DistanceMult: 1.2},
	"desktop-qhd":     {PixelsW: 2560, PixelsH: 1440, DistanceMult: 1.5},
	"desktop-4k":      {PixelsW: 3840, PixelsH: 2160, DistanceMult: 1.8},
	"mobile-portrait": {PixelsW: 1080, PixelsH: 1920, DistanceMult: 0.6},
}

// SizePresetNames returns the known preset names, sorted.
func SizePresetNames() []string {
	names := make([]string, 0, len(sizePresets))
	for name := range sizePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderParams are the derived values that feed both the output-registry key
// and the renderer. They must be resolved once, up front: changing how they
// are derived changes which prior outputs count as identical.
type RenderParams struct {
	DPI          int
	WidthInches  float64
	HeightInches float64
	Distance     int
}

// ResolveDPI applies the quality preset unless an explicit DPI was given.
func ResolveDPI(dpi int, quality string) int {
	if dpi > 0 {
		return dpi
	}
	switch quality {
	case "screen":
		return 150
	case "high":
		return 600
	default:
		return 300
	}
}

// ResolveRenderParams computes effective DPI, canvas size in inches and the
// effective fetch distance. The distance multiplier only applies when the
// user did not set --distance explicitly; the result is always clamped to
// [MinDistanceMeters, MaxDistanceMeters].
//
// An unknown size preset falls back to the default preset with a visible
// warning. A malformed custom:WIDTHxHEIGHT size is a validation error.
func ResolveRenderParams(size, quality string, dpi, distance int, distanceSet bool, log *zap.Logger) (RenderParams, error) {
	params := RenderParams{DPI: ResolveDPI(dpi, quality)}

	distanceMult := 1.0
	if strings.HasPrefix(size, "custom:") {
		w, h, err := parseCustomSize(size)
		if err != nil {
			return RenderParams{}, err
		}
		params.WidthInches = float64(w) / float64(params.DPI)
		params.HeightInches = float64(h) / float64(params.DPI)
	} else {
		preset, ok := sizePresets[size]
		if !ok {
			log.Warn("unknown size preset, using default",
				zap.String("size", size),
				zap.Strings("known", SizePresetNames()))
			preset = sizePresets[DefaultSize]
		}
		if preset.PixelsW > 0 {
			params.WidthInches = float64(preset.PixelsW) / float64(params.DPI)
			params.HeightInches = float64(preset.PixelsH) / float64(params.DPI)
		} else {
			params.WidthInches = preset.WidthInches
			params.HeightInches = preset.HeightInches
		}
		distanceMult = preset.DistanceMult
	}

	if !distanceSet {
		distance = int(float64(distance) * distanceMult)
	}
	if distance < MinDistanceMeters {
		log.Warn("distance below minimum, clamping",
			zap.Int("requested_m", distance), zap.Int("min_m", MinDistanceMeters))
		distance = MinDistanceMeters
	}
	if distance > MaxDistanceMeters {
		log.Warn("distance above maximum, clamping",
			zap.Int("requested_m", distance), zap.Int("max_m", MaxDistanceMeters))
		distance = MaxDistanceMeters
	}
	params.Distance = distance

	return params, nil
}

func parseCustomSize(size string) (int, int, error) {
	spec := strings.TrimPrefix(size, "custom:")
	parts := strings.Split(spec, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid custom size %q: use custom:WIDTHxHEIGHT", size)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid custom size %q: use custom:WIDTHxHEIGHT", size)
	}
	return w, h, nil
}
