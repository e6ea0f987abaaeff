package types

import (
	"testing"
	"time"
)

func TestNewFlightRequest_Normalizes(t *testing.T) {
	dep := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	r := NewFlightRequest(" az ", "sbgl", "SbGr", dep)

	if r.Airline != "AZ" || r.Origin != "SBGL" || r.Destination != "SBGR" {
		t.Fatalf("unexpected codes: %+v", r)
	}
	if r.Route() != "SBGL_SBGR" {
		t.Errorf("Route() = %q, want SBGL_SBGR", r.Route())
	}
	if !r.Departure.Equal(dep) {
		t.Errorf("departure changed: %v", r.Departure)
	}
}
