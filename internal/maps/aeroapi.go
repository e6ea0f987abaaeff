// README: FlightAware AeroAPI client; looks up airport coordinates by code with the x-apikey credential.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ontime/internal/types"
)

const DefaultAeroAPIURL = "https://aeroapi.flightaware.com/aeroapi"

var ErrAirportUnknown = errors.New("aeroapi has no coordinates for airport")

type AeroAPI struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewAeroAPI builds a client. An empty baseURL means DefaultAeroAPIURL and a nil
// client gets a 10s timeout.
func NewAeroAPI(apiKey, baseURL string, httpc *http.Client) (*AeroAPI, error) {
	if apiKey == "" {
		return nil, errors.New("aeroapi key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultAeroAPIURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &AeroAPI{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, httpc: httpc}, nil
}

type aeroAirport struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (a *AeroAPI) Geocode(ctx context.Context, code string) (types.Point, error) {
	endpoint := a.baseURL + "/airports/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.Point{}, fmt.Errorf("failed to create aeroapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=UTF-8")
	req.Header.Set("x-apikey", a.apiKey)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return types.Point{}, fmt.Errorf("aeroapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.Point{}, fmt.Errorf("%w: %s", ErrAirportUnknown, code)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return types.Point{}, fmt.Errorf("aeroapi returned status %d for %s", resp.StatusCode, code)
	}

	var body aeroAirport
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Point{}, fmt.Errorf("decoding aeroapi airport %s: %w", code, err)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return types.Point{}, fmt.Errorf("%w: %s", ErrAirportUnknown, code)
	}
	return types.Point{Lat: *body.Latitude, Lng: *body.Longitude}, nil
}
