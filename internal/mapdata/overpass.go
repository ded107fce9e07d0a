package mapdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable marks transient Overpass failures (5xx, rate limiting).
var ErrUnavailable = errors.New("overpass unavailable")

// Client fetches map layers from an Overpass API endpoint. Each layer is an
// independent call so callers can retry them independently.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		logger:     logger,
	}
}

// FetchNetwork downloads every highway-tagged way around the point.
func (c *Client) FetchNetwork(point Point, radius int) (*Network, error) {
	query := fmt.Sprintf(`[out:json][timeout:90];
way(around:%d,%f,%f)["highway"];
out geom;`, radius, point.Lat, point.Lon)

	elements, err := c.run("network", query)
	if err != nil {
		return nil, err
	}

	network := &Network{}
	for _, el := range elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}
		network.Ways = append(network.Ways, Way{
			Highway: el.Tags["highway"],
			Points:  el.points(),
		})
	}
	c.logger.Debug("street network fetched", zap.Int("ways", len(network.Ways)))
	return network, nil
}

// FetchWater downloads water bodies: natural=water plus river/canal areas.
// Only closed ways survive; water is drawn as filled polygons.
func (c *Client) FetchWater(point Point, radius int) ([]Feature, error) {
	query := fmt.Sprintf(`[out:json][timeout:90];
(
  way(around:%d,%f,%f)["natural"="water"];
  way(around:%d,%f,%f)["waterway"~"^(river|riverbank|canal)$"];
);
out geom;`, radius, point.Lat, point.Lon, radius, point.Lat, point.Lon)

	elements, err := c.run("water", query)
	if err != nil {
		return nil, err
	}
	features := polygons(elements)
	c.logger.Debug("water features fetched", zap.Int("polygons", len(features)))
	return features, nil
}

// FetchParks downloads parks and green spaces as filled polygons.
func (c *Client) FetchParks(point Point, radius int) ([]Feature, error) {
	query := fmt.Sprintf(`[out:json][timeout:90];
(
  way(around:%d,%f,%f)["leisure"="park"];
  way(around:%d,%f,%f)["landuse"~"^(grass|forest|recreation_ground)$"];
);
out geom;`, radius, point.Lat, point.Lon, radius, point.Lat, point.Lon)

	elements, err := c.run("parks", query)
	if err != nil {
		return nil, err
	}
	features := polygons(elements)
	c.logger.Debug("park features fetched", zap.Int("polygons", len(features)))
	return features, nil
}

type overpassElement struct {
	Type     string            `json:"type"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

func (el overpassElement) points() []Point {
	pts := make([]Point, 0, len(el.Geometry))
	for _, g := range el.Geometry {
		pts = append(pts, Point{Lat: g.Lat, Lon: g.Lon})
	}
	return pts
}

func (c *Client) run(layer, query string) ([]overpassElement, error) {
	form := url.Values{"data": {query}}
	resp, err := c.httpClient.Post(c.endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("overpass %s request: %w", layer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("overpass %s returned status %d: %w", layer, resp.StatusCode, ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass %s returned status %d", layer, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("overpass %s read: %w", layer, err)
	}

	var parsed struct {
		Elements []overpassElement `json:"elements"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("overpass %s decode: %w", layer, err)
	}
	return parsed.Elements, nil
}

// polygons keeps only closed ways and turns each into a single-ring feature.
func polygons(elements []overpassElement) []Feature {
	var features []Feature
	for _, el := range elements {
		if el.Type != "way" || len(el.Geometry) < 4 {
			continue
		}
		first := el.Geometry[0]
		last := el.Geometry[len(el.Geometry)-1]
		if first.Lat != last.Lat || first.Lon != last.Lon {
			continue
		}
		features = append(features, Feature{Rings: [][]Point{el.points()}})
	}
	return features
}
