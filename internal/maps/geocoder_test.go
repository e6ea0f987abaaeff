package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmaps "googlemaps.github.io/maps"

	"ontime/internal/types"
)

func TestAirportQuery(t *testing.T) {
	if got := airportQuery("SBGL"); got != "SBGL airport" {
		t.Errorf("airportQuery() = %q", got)
	}
}

func TestIsAirport(t *testing.T) {
	if !isAirport([]string{"establishment", "airport", "point_of_interest"}) {
		t.Error("expected airport type to match")
	}
	if isAirport([]string{"locality", "political"}) {
		t.Error("locality must not match")
	}
	if isAirport(nil) {
		t.Error("nil types must not match")
	}
}

func TestNewGeocoder_RequiresKey(t *testing.T) {
	if _, err := NewGeocoder(""); err == nil {
		t.Error("expected error for empty api key")
	}
}

const geocodeResponse = `{
  "status": "OK",
  "results": [
    {"formatted_address": "Rio de Janeiro, RJ", "place_id": "city",
     "geometry": {"location": {"lat": -22.9068, "lng": -43.1729}, "location_type": "APPROXIMATE"},
     "types": ["locality", "political"]},
    {"formatted_address": "Galeao Airport", "place_id": "gig",
     "geometry": {"location": {"lat": -22.8089, "lng": -43.2436}, "location_type": "APPROXIMATE"},
     "types": ["airport", "establishment", "point_of_interest"]}
  ]
}`

func newGeocodeServer(t *testing.T, body string, query *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)
			return
		}
		*query = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocode_PicksAirportResult(t *testing.T) {
	var query string
	srv := newGeocodeServer(t, geocodeResponse, &query)

	g, err := NewGeocoder("maps-key", gmaps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	p, err := g.Geocode(context.Background(), "SBGL")
	require.NoError(t, err)
	assert.Equal(t, types.Point{Lat: -22.8089, Lng: -43.2436}, p)
	assert.Equal(t, "SBGL airport", query)
}

func TestGeocode_NoAirportResult(t *testing.T) {
	var query string
	srv := newGeocodeServer(t, `{"status":"ZERO_RESULTS","results":[]}`, &query)

	g, err := NewGeocoder("maps-key", gmaps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "ZZZZ")
	assert.Error(t, err)
}
