package render

import (
	"errors"
	"math"

	"mapposter/internal/mapdata"
)

// projection maps WGS84 coordinates onto the poster canvas. Longitudes are
// compressed by cos(center latitude) so street geometry keeps its shape,
// then the whole extent is scaled to fill the canvas (full bleed, centered,
// edges cropped).
type projection struct {
	centerX float64
	centerY float64
	scale   float64
	width   float64
	height  float64
	cosLat  float64
}

func newProjection(data *mapdata.MapData, widthPx, heightPx float64) (*projection, error) {
	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)

	visit := func(pts []mapdata.Point) {
		for _, pt := range pts {
			minLat = math.Min(minLat, pt.Lat)
			maxLat = math.Max(maxLat, pt.Lat)
			minLon = math.Min(minLon, pt.Lon)
			maxLon = math.Max(maxLon, pt.Lon)
		}
	}
	if data.Network != nil {
		for _, way := range data.Network.Ways {
			visit(way.Points)
		}
	}
	for _, f := range data.Water {
		for _, ring := range f.Rings {
			visit(ring)
		}
	}
	for _, f := range data.Parks {
		for _, ring := range f.Rings {
			visit(ring)
		}
	}

	if math.IsInf(minLat, 1) || maxLat == minLat || maxLon == minLon {
		return nil, errors.New("no drawable geometry in map data")
	}

	cosLat := math.Cos((minLat + maxLat) / 2 * math.Pi / 180)
	extentX := (maxLon - minLon) * cosLat
	extentY := maxLat - minLat

	// Fill the canvas: the larger of the two ratios wins and overflow crops.
	scale := math.Max(widthPx/extentX, heightPx/extentY)

	return &projection{
		centerX: (minLon + maxLon) / 2 * cosLat,
		centerY: (minLat + maxLat) / 2,
		scale:   scale,
		width:   widthPx,
		height:  heightPx,
		cosLat:  cosLat,
	}, nil
}

func (p *projection) toCanvas(pt mapdata.Point) (float64, float64) {
	x := (pt.Lon*p.cosLat-p.centerX)*p.scale + p.width/2
	y := p.height/2 - (pt.Lat-p.centerY)*p.scale
	return x, y
}
