// README: Google Geocoding provider for airport coordinates.
package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"ontime/internal/types"
)

// Geocoder resolves airport codes to coordinates with the Google Geocoding API.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given Google Maps API key. Extra
// options are passed to the maps client.
func NewGeocoder(apiKey string, opts ...maps.ClientOption) (*Geocoder, error) {
	if apiKey == "" {
		return nil, errors.New("maps api key is empty")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Geocode returns the location of the first result matching "<code> airport".
// Only results typed as airports are accepted.
func (g *Geocoder) Geocode(ctx context.Context, code string) (types.Point, error) {
	r := &maps.GeocodingRequest{
		Address: airportQuery(code),
	}

	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, fmt.Errorf("maps api error: %w", err)
	}

	for _, res := range results {
		if !isAirport(res.Types) {
			continue
		}
		loc := res.Geometry.Location
		return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
	}
	return types.Point{}, fmt.Errorf("no airport result for %s", code)
}

func airportQuery(code string) string {
	return code + " airport"
}

func isAirport(kinds []string) bool {
	for _, k := range kinds {
		if k == "airport" {
			return true
		}
	}
	return false
}
