// Package poster coordinates one generation run: registry lookup, map-data
// cache, network fetch with retries, render, and the final registry record.
package poster

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"mapposter/internal/config"
	"mapposter/internal/geo"
	"mapposter/internal/mapcache"
	"mapposter/internal/mapdata"
	"mapposter/internal/outputs"
	"mapposter/internal/render"
	"mapposter/internal/retry"
	"mapposter/internal/themes"
)

// Collaborator interfaces. The generator owns when to call each of them, not
// how they work; tests swap in fakes.
type Geocoder interface {
	Geocode(city, country string) (geo.Location, error)
}

type Fetcher interface {
	FetchNetwork(point mapdata.Point, radius int) (*mapdata.Network, error)
	FetchWater(point mapdata.Point, radius int) ([]mapdata.Feature, error)
	FetchParks(point mapdata.Point, radius int) ([]mapdata.Feature, error)
}

type Renderer interface {
	Render(req render.Request) error
}

type ThemeSource interface {
	Load(name string) themes.Theme
}

// Per-call-site retry patience. The street network is the heaviest call and
// gets a longer base delay. Package variables so tests can shrink the waits.
var (
	geocodePolicy = retryPolicy(4, 1500*time.Millisecond, notFoundIsTerminal)
	networkPolicy = retryPolicy(3, 1500*time.Millisecond, nil)
	waterPolicy   = retryPolicy(3, 1000*time.Millisecond, nil)
	parksPolicy   = retryPolicy(3, 1000*time.Millisecond, nil)
)

func retryPolicy(attempts int, base time.Duration, retryable func(error) bool) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: base, Multiplier: 2.0, Retryable: retryable}
}

func notFoundIsTerminal(err error) bool {
	return !errors.Is(err, geo.ErrNotFound)
}

// Request is one user invocation after flag validation.
type Request struct {
	City     string
	Country  string
	Theme    string
	Distance int
	// DistanceSet records whether --distance was given explicitly; only
	// implicit distances are scaled by the size preset.
	DistanceSet  bool
	Size         string
	Quality      string
	DPI          int
	Format       string
	ForceRefresh bool
}

// Result reports what the run produced, or found already produced.
type Result struct {
	Path        string
	GeneratedAt string
	Cached      bool
	Theme       themes.Theme
	Point       mapdata.Point
	Params      config.RenderParams
	Duration    time.Duration
}

type Generator struct {
	cfg      *config.Config
	log      *zap.Logger
	cache    *mapcache.Cache
	registry *outputs.Registry
	geocoder Geocoder
	fetcher  Fetcher
	renderer Renderer
	themes   ThemeSource
	now      func() time.Time
}

func New(cfg *config.Config, log *zap.Logger, cache *mapcache.Cache, registry *outputs.Registry,
	geocoder Geocoder, fetcher Fetcher, renderer Renderer, themeSource ThemeSource) *Generator {
	return &Generator{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		registry: registry,
		geocoder: geocoder,
		fetcher:  fetcher,
		renderer: renderer,
		themes:   themeSource,
		now:      time.Now,
	}
}

// Run executes the full generation flow. Derived parameters are resolved
// first because they are part of the registry key; then the registry is
// consulted before any network work so an identical prior run short-circuits
// everything.
func (g *Generator) Run(req Request) (*Result, error) {
	start := g.now()

	params, err := config.ResolveRenderParams(req.Size, req.Quality, req.DPI, req.Distance, req.DistanceSet, g.log)
	if err != nil {
		return nil, err
	}
	g.log.Debug("parameters resolved",
		zap.Int("dpi", params.DPI),
		zap.Int("distance_m", params.Distance),
		zap.Float64("width_in", params.WidthInches),
		zap.Float64("height_in", params.HeightInches))

	outputParams := outputs.Params{
		City:     req.City,
		Country:  req.Country,
		Theme:    req.Theme,
		Distance: params.Distance,
		Size:     req.Size,
		DPI:      params.DPI,
		Format:   req.Format,
	}

	if rec, ok := g.registry.Lookup(outputParams); ok {
		if _, err := os.Stat(rec.Path); err == nil {
			g.log.Info("poster already generated, skipping",
				zap.String("path", rec.Path), zap.String("generated_at", rec.GeneratedAt))
			theme := g.themes.Load(req.Theme)
			return &Result{
				Path:        rec.Path,
				GeneratedAt: rec.GeneratedAt,
				Cached:      true,
				Theme:       theme,
				Params:      params,
				Duration:    g.now().Sub(start),
			}, nil
		}
		g.log.Warn("registered poster file missing, regenerating", zap.String("path", rec.Path))
	}

	theme := g.themes.Load(req.Theme)

	location, err := retry.Do(g.log, geocodePolicy, "geocode", func() (geo.Location, error) {
		return g.geocoder.Geocode(req.City, req.Country)
	})
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	point := mapdata.Point{Lat: location.Lat, Lon: location.Lon}

	if req.ForceRefresh {
		g.cache.Invalidate(point.Lat, point.Lon, params.Distance)
	}

	data, hit := g.cache.Get(point.Lat, point.Lon, params.Distance)
	if !hit {
		data, err = g.fetchLayers(point, params.Distance)
		if err != nil {
			return nil, err
		}
		g.cache.Put(point.Lat, point.Lon, params.Distance, data)
	}

	outputPath, err := outputFilename(g.cfg.PostersDir, req.City, req.Theme, req.Format, g.now())
	if err != nil {
		return nil, err
	}

	// Rendering is deterministic; a failure here is fatal, never retried.
	err = g.renderer.Render(render.Request{
		City:         req.City,
		Country:      req.Country,
		Point:        point,
		Data:         data,
		Theme:        theme,
		OutputPath:   outputPath,
		Format:       req.Format,
		DPI:          params.DPI,
		WidthInches:  params.WidthInches,
		HeightInches: params.HeightInches,
	})
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	rec := g.registry.Record(outputParams, outputPath)

	return &Result{
		Path:        rec.Path,
		GeneratedAt: rec.GeneratedAt,
		Theme:       theme,
		Point:       point,
		Params:      params,
		Duration:    g.now().Sub(start),
	}, nil
}

// fetchLayers downloads the three layers independently, each with its own
// retry budget, so one flaky layer does not restart the others.
func (g *Generator) fetchLayers(point mapdata.Point, distance int) (*mapdata.MapData, error) {
	network, err := retry.Do(g.log, networkPolicy, "fetch_network", func() (*mapdata.Network, error) {
		return g.fetcher.FetchNetwork(point, distance)
	})
	if err != nil {
		return nil, fmt.Errorf("street network fetch failed: %w", err)
	}

	water, err := retry.Do(g.log, waterPolicy, "fetch_water", func() ([]mapdata.Feature, error) {
		return g.fetcher.FetchWater(point, distance)
	})
	if err != nil {
		return nil, fmt.Errorf("water fetch failed: %w", err)
	}

	parks, err := retry.Do(g.log, parksPolicy, "fetch_parks", func() ([]mapdata.Feature, error) {
		return g.fetcher.FetchParks(point, distance)
	})
	if err != nil {
		return nil, fmt.Errorf("parks fetch failed: %w", err)
	}

	return &mapdata.MapData{Network: network, Water: water, Parks: parks}, nil
}
