// Package mapdata holds the map-layer types and the Overpass fetcher.
package mapdata

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Way is one drawable street segment with its OSM highway class.
type Way struct {
	Highway string
	Points  []Point
}

// Network is the street network around the requested point.
type Network struct {
	Ways []Way
}

// Feature is a filled polygon (water body, park) as one or more rings.
type Feature struct {
	Rings [][]Point
}

// MapData bundles the three fetched layers. The cache layer treats it as an
// atomic blob; water and parks may be nil when the area has none.
type MapData struct {
	Network *Network
	Water   []Feature
	Parks   []Feature
}
