// README: Cancellation service answers rate lookups; load failures degrade to empty tables.
package cancellation

import (
	"context"
	"log/slog"
)

type Service struct {
	airline Rates
	origin  Rates
	route   Rates
}

func NewService(airline, origin, route Rates) *Service {
	return &Service{airline: airline, origin: origin, route: route}
}

// Load reads the three tables from src. It never fails: a table whose source is
// missing or malformed is replaced by an empty one and reported as defaulted.
func Load(ctx context.Context, src Source) (*Service, []LoadResult) {
	results := make([]LoadResult, 0, 3)
	tables := make(map[Kind]Rates, 3)
	for _, kind := range []Kind{KindAirline, KindOrigin, KindRoute} {
		res := LoadResult{Kind: kind, Outcome: OutcomeLoaded}
		entries, err := src.Rates(ctx, kind)
		if err != nil {
			slog.Warn("cancellation rates unavailable, defaulting to 0.0", "table", kind, "error", err)
			res.Outcome = OutcomeDefaulted
			res.Err = err
			entries = nil
		}
		res.Rates = NewRates(entries)
		tables[kind] = res.Rates
		results = append(results, res)
	}
	return NewService(tables[KindAirline], tables[KindOrigin], tables[KindRoute]), results
}

func (s *Service) AirlineRate(code string) float64 {
	return s.airline.Rate(code)
}

func (s *Service) OriginRate(code string) float64 {
	return s.origin.Rate(code)
}

func (s *Service) RouteRate(code string) float64 {
	return s.route.Rate(code)
}
