// README: Airport service resolves origin coordinates, optionally falling back to an online geocoder.
package airport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ontime/internal/types"
)

var ErrNotFound = errors.New("airport not found")

// Geocoder looks up coordinates for an airport code over the network.
type Geocoder interface {
	Geocode(ctx context.Context, code string) (types.Point, error)
}

type Service struct {
	table    *Table
	geocoder Geocoder
	fallback bool
}

// NewService wraps a loaded table. The geocoder may be nil; it is consulted on a
// table miss only when fallback is true.
func NewService(table *Table, geocoder Geocoder, fallback bool) *Service {
	return &Service{table: table, geocoder: geocoder, fallback: fallback}
}

func (s *Service) CoordinatesFor(ctx context.Context, code string) (types.Point, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if p, ok := s.table.Lookup(code); ok {
		return p, nil
	}
	if s.fallback && s.geocoder != nil {
		p, err := s.CoordinatesOnline(ctx, code)
		if err == nil {
			return p, nil
		}
		slog.Warn("online airport lookup failed", "airport", code, "error", err)
	}
	return types.Point{}, fmt.Errorf("%w: %s", ErrNotFound, code)
}

// CoordinatesOnline queries the geocoder directly, bypassing the table.
func (s *Service) CoordinatesOnline(ctx context.Context, code string) (types.Point, error) {
	if s.geocoder == nil {
		return types.Point{}, errors.New("no geocoder configured")
	}
	return s.geocoder.Geocode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}
