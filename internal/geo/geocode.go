// Package geo resolves city names to coordinates via Nominatim.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is terminal: the query resolved cleanly to nothing, so
// retrying cannot help.
var ErrNotFound = errors.New("location not found")

// ErrUnavailable marks transient provider failures.
var ErrUnavailable = errors.New("geocoder unavailable")

const userAgent = "mapposter/2.4"

// Location is a resolved place.
type Location struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Geocode looks up "city, country" and returns the best match.
func (c *Client) Geocode(city, country string) (Location, error) {
	query := fmt.Sprintf("%s, %s", city, country)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequest(http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	// Nominatim's usage policy requires an identifying user agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Location{}, fmt.Errorf("geocoder returned status %d: %w", resp.StatusCode, ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, fmt.Errorf("geocode read: %w", err)
	}

	// Nominatim encodes coordinates as strings.
	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return Location{}, fmt.Errorf("geocode decode: %w", err)
	}
	if len(results) == 0 {
		return Location{}, fmt.Errorf("no match for %q: %w", query, ErrNotFound)
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Location{}, fmt.Errorf("geocode %q: malformed coordinates in response", query)
	}

	loc := Location{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}
	c.logger.Info("location resolved",
		zap.String("query", query),
		zap.String("display_name", loc.DisplayName),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lon", loc.Lon))
	return loc, nil
}
