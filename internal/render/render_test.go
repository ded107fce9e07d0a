package render_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapposter/internal/mapdata"
	"mapposter/internal/render"
	"mapposter/internal/themes"
)

func testData() *mapdata.MapData {
	return &mapdata.MapData{
		Network: &mapdata.Network{Ways: []mapdata.Way{
			{Highway: "motorway", Points: []mapdata.Point{{Lat: 48.84, Lon: 2.33}, {Lat: 48.87, Lon: 2.37}}},
			{Highway: "residential", Points: []mapdata.Point{{Lat: 48.85, Lon: 2.34}, {Lat: 48.86, Lon: 2.35}}},
		}},
		Water: []mapdata.Feature{
			{Rings: [][]mapdata.Point{{
				{Lat: 48.845, Lon: 2.34}, {Lat: 48.85, Lon: 2.345}, {Lat: 48.845, Lon: 2.35}, {Lat: 48.845, Lon: 2.34},
			}}},
		},
		Parks: []mapdata.Feature{
			{Rings: [][]mapdata.Point{{
				{Lat: 48.86, Lon: 2.36}, {Lat: 48.865, Lon: 2.365}, {Lat: 48.86, Lon: 2.37}, {Lat: 48.86, Lon: 2.36},
			}}},
		},
	}
}

func testRequest(t *testing.T, format string) render.Request {
	t.Helper()
	return render.Request{
		City:         "Paris",
		Country:      "France",
		Point:        mapdata.Point{Lat: 48.8566, Lon: 2.3522},
		Data:         testData(),
		Theme:        themes.Default(),
		OutputPath:   filepath.Join(t.TempDir(), "poster."+format),
		Format:       format,
		DPI:          50,
		WidthInches:  2,
		HeightInches: 3,
	}
}

func TestRenderPNG(t *testing.T) {
	poster := render.New(nil, zap.NewNop())
	req := testRequest(t, "png")

	require.NoError(t, poster.Render(req))

	info, err := os.Stat(req.OutputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderSVG(t *testing.T) {
	poster := render.New(nil, zap.NewNop())
	req := testRequest(t, "svg")

	require.NoError(t, poster.Render(req))

	data, err := os.ReadFile(req.OutputPath)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "<svg"))
	assert.Contains(t, content, "</svg>")
	assert.Contains(t, content, "polyline", "street ways render as polylines")
	assert.Contains(t, content, "<path", "water and parks render as filled paths")
	assert.Contains(t, content, "P  A  R  I  S")
	assert.Contains(t, content, "FRANCE")
	assert.Contains(t, content, "48.8566° N / 2.3522° E")
	assert.Contains(t, content, "OpenStreetMap contributors")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	poster := render.New(nil, zap.NewNop())
	req := testRequest(t, "png")
	req.Format = "pdf"

	err := poster.Render(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRenderEmptyDataFails(t *testing.T) {
	poster := render.New(nil, zap.NewNop())
	req := testRequest(t, "png")
	req.Data = &mapdata.MapData{}

	err := poster.Render(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no drawable geometry")
}
