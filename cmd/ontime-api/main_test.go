package main

import (
	"testing"

	"ontime/internal/config"
	"ontime/internal/maps"
)

func TestOnlineProviders_AeroAPIFirst(t *testing.T) {
	var cfg config.Config
	cfg.AeroAPIKey = "aero"
	cfg.GoogleMapsKey = "google"

	chain := onlineProviders(cfg)
	if len(chain) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(chain))
	}
	if _, ok := chain[0].(*maps.AeroAPI); !ok {
		t.Errorf("first provider = %T, want *maps.AeroAPI", chain[0])
	}
	if _, ok := chain[1].(*maps.Geocoder); !ok {
		t.Errorf("second provider = %T, want *maps.Geocoder", chain[1])
	}
}

func TestOnlineProviders_AeroKeyNeverReachesGoogle(t *testing.T) {
	var cfg config.Config
	cfg.AeroAPIKey = "aero"

	chain := onlineProviders(cfg)
	if len(chain) != 1 {
		t.Fatalf("expected only AeroAPI, got %d providers", len(chain))
	}
	if _, ok := chain[0].(*maps.AeroAPI); !ok {
		t.Errorf("provider = %T", chain[0])
	}
	if len(onlineProviders(config.Config{})) != 0 {
		t.Error("no keys must yield no providers")
	}
}
