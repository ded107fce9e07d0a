package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mapposter/internal/config"
	"mapposter/internal/fonts"
	"mapposter/internal/geo"
	"mapposter/internal/logger"
	"mapposter/internal/mapcache"
	"mapposter/internal/mapdata"
	"mapposter/internal/outputs"
	"mapposter/internal/poster"
	"mapposter/internal/render"
	"mapposter/internal/themes"
)

const version = "2.4.1"

type options struct {
	city        string
	country     string
	theme       string
	distance    int
	distanceSet bool
	format      string
	dpi         int
	quality     string
	size        string
	noCache     bool
	verbose     bool
	listThemes  bool
}

func parseFlags() *options {
	o := &options{}

	flag.StringVar(&o.city, "city", "", "City name")
	flag.StringVar(&o.city, "c", "", "City name (shorthand)")
	flag.StringVar(&o.country, "country", "", "Country name")
	flag.StringVar(&o.country, "C", "", "Country name (shorthand)")
	flag.StringVar(&o.theme, "theme", "feature_based", "Theme name")
	flag.StringVar(&o.theme, "t", "feature_based", "Theme name (shorthand)")
	flag.IntVar(&o.distance, "distance", 29000, "Radius in meters")
	flag.IntVar(&o.distance, "d", 29000, "Radius in meters (shorthand)")
	flag.StringVar(&o.format, "format", "png", "Output format: png or svg")
	flag.StringVar(&o.format, "f", "png", "Output format (shorthand)")
	flag.IntVar(&o.dpi, "dpi", 0, "Output DPI for raster formats (default from --quality)")
	flag.StringVar(&o.quality, "quality", "print", "Quality preset: screen (150 dpi), print (300 dpi), high (600 dpi)")
	flag.StringVar(&o.size, "size", config.DefaultSize, "Output size preset or custom:WIDTHxHEIGHT")
	flag.StringVar(&o.size, "s", config.DefaultSize, "Output size (shorthand)")
	flag.BoolVar(&o.noCache, "no-cache", false, "Force fresh download, ignore and overwrite the map cache")
	flag.BoolVar(&o.verbose, "verbose", false, "Show timing and debug information")
	flag.BoolVar(&o.verbose, "v", false, "Verbose (shorthand)")
	flag.BoolVar(&o.listThemes, "list-themes", false, "List all available themes")

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "distance" || f.Name == "d" {
			o.distanceSet = true
		}
	})
	return o
}

func printExamples() {
	fmt.Print(`City Map Poster Generator
=========================

Usage:
  mapposter --city <city> --country <country> [options]

Examples:
  mapposter -c Amsterdam -C Netherlands -t blueprint -d 6000
  mapposter -c Paris -C France -t noir -s desktop-4k
  mapposter -c Tokyo -C Japan -s mobile-portrait
  mapposter -c Rome -C Italy -s custom:3000x5000
`)
}

func printThemes(loader *themes.Loader) {
	names := loader.Available()
	if len(names) == 0 {
		fmt.Println("No themes found.")
		return
	}

	fmt.Println("\nAvailable Themes:")
	fmt.Println("------------------------------------------------------------")
	for _, name := range names {
		display, desc := loader.Describe(name)
		fmt.Printf("  %s\n    %s\n", name, display)
		if desc != "" {
			fmt.Printf("    %s\n", desc)
		}
		fmt.Println()
	}
}

func main() {
	opts := parseFlags()
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()
	log = log.With(zap.String("run_id", uuid.NewString()))

	themeLoader := themes.NewLoader(cfg.ThemesDir, log)

	if opts.listThemes {
		printThemes(themeLoader)
		os.Exit(0)
	}

	if opts.city == "" || opts.country == "" {
		fmt.Fprintln(os.Stderr, "Error: --city and --country are required.")
		fmt.Println()
		printExamples()
		os.Exit(1)
	}
	if opts.format != "png" && opts.format != "svg" {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q (supported: png, svg)\n", opts.format)
		os.Exit(1)
	}
	switch opts.quality {
	case "screen", "print", "high":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown quality %q (supported: screen, print, high)\n", opts.quality)
		os.Exit(1)
	}

	log.Info("starting generation",
		zap.String("version", version),
		zap.String("city", opts.city),
		zap.String("country", opts.country),
		zap.String("theme", opts.theme),
		zap.String("size", opts.size),
		zap.String("format", opts.format))

	cache, err := mapcache.New(cfg.CacheDir, log)
	if err != nil {
		log.Fatal("failed to initialize map data cache", zap.Error(err))
	}
	registry := outputs.NewRegistry(cfg.RegistryFile, log)

	fontSet, err := fonts.Load(cfg.FontsDir)
	if err != nil {
		log.Warn("fonts unavailable, using built-in face", zap.Error(err))
	}

	gen := poster.New(cfg, log, cache, registry,
		geo.NewClient(cfg.GeocoderURL, log),
		mapdata.NewClient(cfg.OverpassURL, log),
		render.New(fontSet, log),
		themeLoader)

	result, err := gen.Run(poster.Request{
		City:         opts.city,
		Country:      opts.country,
		Theme:        opts.theme,
		Distance:     opts.distance,
		DistanceSet:  opts.distanceSet,
		Size:         opts.size,
		Quality:      opts.quality,
		DPI:          opts.dpi,
		Format:       opts.format,
		ForceRefresh: opts.noCache,
	})
	if err != nil {
		log.Debug("generation failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "✗ Error during generation: %v\n", err)
		os.Exit(1)
	}

	stats := cache.Stats()
	log.Info("generation finished",
		zap.Bool("cached", result.Cached),
		zap.Duration("duration", result.Duration),
		zap.Uint64("cache_hits", stats.Hits),
		zap.Uint64("cache_corruptions", stats.Corruptions))

	fmt.Println("\n══════════════════════════════════════════════════")
	if result.Cached {
		fmt.Println("Poster already generated, skipping render!")
	} else {
		fmt.Println("Poster successfully created!")
	}
	fmt.Printf("  City:      %s, %s\n", opts.city, opts.country)
	fmt.Printf("  Theme:     %s\n", result.Theme.Name)
	fmt.Printf("  File:      %s\n", result.Path)
	fmt.Printf("  Generated: %s\n", result.GeneratedAt)
	if opts.verbose {
		fmt.Printf("  Distance:  %d m\n", result.Params.Distance)
		fmt.Printf("  Size:      %.2f × %.2f inches\n", result.Params.WidthInches, result.Params.HeightInches)
		fmt.Printf("  DPI:       %d\n", result.Params.DPI)
		fmt.Printf("  Duration:  %.2f seconds\n", result.Duration.Seconds())
	}
	fmt.Println("══════════════════════════════════════════════════")
}
