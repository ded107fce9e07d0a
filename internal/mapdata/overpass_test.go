package mapdata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapposter/internal/mapdata"
)

func overpassServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.Form.Get("data"), "overpass query must be in the data field")
		w.Write([]byte(body))
	}))
}

func TestFetchNetworkParsesWays(t *testing.T) {
	server := overpassServer(t, `{"elements": [
		{"type": "way", "tags": {"highway": "primary"}, "geometry": [
			{"lat": 48.85, "lon": 2.35}, {"lat": 48.86, "lon": 2.36}, {"lat": 48.87, "lon": 2.37}
		]},
		{"type": "way", "tags": {"highway": "residential"}, "geometry": [
			{"lat": 48.84, "lon": 2.34}, {"lat": 48.85, "lon": 2.35}
		]},
		{"type": "node"},
		{"type": "way", "tags": {"highway": "service"}, "geometry": [{"lat": 1, "lon": 1}]}
	]}`)
	defer server.Close()

	client := mapdata.NewClient(server.URL, zap.NewNop())
	network, err := client.FetchNetwork(mapdata.Point{Lat: 48.8566, Lon: 2.3522}, 5000)

	require.NoError(t, err)
	require.Len(t, network.Ways, 2, "nodes and single-point ways are dropped")
	assert.Equal(t, "primary", network.Ways[0].Highway)
	assert.Len(t, network.Ways[0].Points, 3)
	assert.InDelta(t, 48.85, network.Ways[0].Points[0].Lat, 0.0001)
}

func TestFetchWaterKeepsOnlyClosedWays(t *testing.T) {
	server := overpassServer(t, `{"elements": [
		{"type": "way", "tags": {"natural": "water"}, "geometry": [
			{"lat": 48.8, "lon": 2.3}, {"lat": 48.81, "lon": 2.31}, {"lat": 48.8, "lon": 2.32}, {"lat": 48.8, "lon": 2.3}
		]},
		{"type": "way", "tags": {"waterway": "river"}, "geometry": [
			{"lat": 48.8, "lon": 2.3}, {"lat": 48.81, "lon": 2.31}, {"lat": 48.82, "lon": 2.32}, {"lat": 48.83, "lon": 2.33}
		]}
	]}`)
	defer server.Close()

	client := mapdata.NewClient(server.URL, zap.NewNop())
	water, err := client.FetchWater(mapdata.Point{Lat: 48.8566, Lon: 2.3522}, 5000)

	require.NoError(t, err)
	require.Len(t, water, 1, "open ways are not polygons")
	assert.Len(t, water[0].Rings[0], 4)
}

func TestFetchParksEmptyAreaIsValid(t *testing.T) {
	server := overpassServer(t, `{"elements": []}`)
	defer server.Close()

	client := mapdata.NewClient(server.URL, zap.NewNop())
	parks, err := client.FetchParks(mapdata.Point{Lat: 78.2232, Lon: 15.6267}, 5000)

	require.NoError(t, err)
	assert.Nil(t, parks)
}

func TestFetchServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := mapdata.NewClient(server.URL, zap.NewNop())
	_, err := client.FetchNetwork(mapdata.Point{Lat: 48.8566, Lon: 2.3522}, 5000)

	require.Error(t, err)
	assert.ErrorIs(t, err, mapdata.ErrUnavailable)
}

func TestFetchRateLimitIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := mapdata.NewClient(server.URL, zap.NewNop())
	_, err := client.FetchWater(mapdata.Point{Lat: 48.8566, Lon: 2.3522}, 5000)

	require.Error(t, err)
	assert.ErrorIs(t, err, mapdata.ErrUnavailable)
}
