// README: Common value objects shared by the prediction modules.
package types

import (
	"strings"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// FlightRequest is the normalized input of one prediction. Codes are uppercased
// once at construction and never mutated afterwards.
type FlightRequest struct {
	Airline     string
	Origin      string
	Destination string
	Departure   time.Time
}

func NewFlightRequest(airline, origin, destination string, departure time.Time) FlightRequest {
	return FlightRequest{
		Airline:     normalizeCode(airline),
		Origin:      normalizeCode(origin),
		Destination: normalizeCode(destination),
		Departure:   departure,
	}
}

// Route joins origin and destination the way the route cancel-rate table is keyed.
func (r FlightRequest) Route() string {
	return RouteCode(r.Origin, r.Destination)
}

func RouteCode(origin, destination string) string {
	return normalizeCode(origin) + "_" + normalizeCode(destination)
}

func normalizeCode(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
