// README: Delay service sequences coordinates, weather, features and prediction for one request.
package delay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"ontime/internal/modules/airport"
	"ontime/internal/modules/features"
	"ontime/internal/modules/prediction"
	"ontime/internal/modules/weather"
	"ontime/internal/types"
)

const defaultWeatherDeadline = 15 * time.Second

type AirportResolver interface {
	CoordinatesFor(ctx context.Context, code string) (types.Point, error)
}

type WeatherFetcher interface {
	FetchWindow(ctx context.Context, lat, lon float64, departure time.Time) weather.Result
}

type Predictor interface {
	Predict(r features.Record) (prediction.Result, error)
}

type Deps struct {
	Airports  AirportResolver
	Weather   WeatherFetcher
	Rates     features.RateLookup
	Builder   *features.Builder
	Predictor Predictor
	// WeatherDeadline bounds the wait for the weather goroutine.
	WeatherDeadline time.Duration
}

type Service struct {
	airports        AirportResolver
	weather         WeatherFetcher
	rates           features.RateLookup
	builder         *features.Builder
	predictor       Predictor
	weatherDeadline time.Duration
}

func NewService(deps Deps) *Service {
	s := &Service{
		airports:        deps.Airports,
		weather:         deps.Weather,
		rates:           deps.Rates,
		builder:         deps.Builder,
		predictor:       deps.Predictor,
		weatherDeadline: deps.WeatherDeadline,
	}
	if s.builder == nil {
		s.builder = features.NewBuilder(features.DefaultCalendar())
	}
	if s.weatherDeadline <= 0 {
		s.weatherDeadline = defaultWeatherDeadline
	}
	return s
}

// Predict runs the pipeline for one request. Every failure comes back as *Error;
// panics are recovered here so nothing escapes unclassified.
func (s *Service) Predict(ctx context.Context, req types.FlightRequest) (out *Outcome, err error) {
	o := &Outcome{Request: req, Stages: []Stage{StageReceived}}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("prediction pipeline panicked",
				"stage", o.last(), "request", req, "panic", r, "stack", string(debug.Stack()))
			out, err = nil, s.fail(o, KindInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	point, err := s.airports.CoordinatesFor(ctx, req.Origin)
	if err != nil {
		kind := KindInternal
		if errors.Is(err, airport.ErrNotFound) {
			kind = KindClientInput
		}
		return nil, s.fail(o, kind, err)
	}
	o.Origin = point
	o.advance(StageCoordinatesResolved)

	o.Weather = s.fetchWeather(ctx, point, req.Departure)
	o.advance(StageWeatherFetched)

	o.Features = s.builder.Build(req, s.rates, o.Weather.Window)
	o.advance(StageFeaturesBuilt)

	res, err := s.predictor.Predict(o.Features)
	if err != nil {
		return nil, s.fail(o, KindServerFault, err)
	}
	o.Prediction = res
	o.advance(StagePredicted)

	o.Response = toResponse(res)
	o.advance(StageResponded)

	slog.Info("flight delay predicted",
		"airline", req.Airline, "route", req.Route(), "departure", req.Departure,
		"label", res.Label, "probability", res.Probability, "p_delayed", res.PositiveProbability,
		"weather", o.Weather.Outcome)
	return o, nil
}

// fetchWeather runs the outbound call on its own goroutine so a stalled upstream
// only costs this request its deadline. It never fails.
func (s *Service) fetchWeather(ctx context.Context, p types.Point, departure time.Time) weather.Result {
	if s.weather == nil {
		return weather.Result{Outcome: weather.OutcomeDegraded, Err: errors.New("no weather client configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, s.weatherDeadline)
	defer cancel()

	ch := make(chan weather.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("weather fetch panicked", "panic", r, "stack", string(debug.Stack()))
				ch <- weather.Result{Outcome: weather.OutcomeDegraded, Err: fmt.Errorf("weather panic: %v", r)}
			}
		}()
		ch <- s.weather.FetchWindow(ctx, p.Lat, p.Lng, departure)
	}()

	select {
	case res := <-ch:
		return res
	case <-ctx.Done():
		slog.Warn("weather fetch abandoned", "lat", p.Lat, "lon", p.Lng, "error", ctx.Err())
		return weather.Result{Outcome: weather.OutcomeDegraded, Err: ctx.Err()}
	}
}

func (s *Service) fail(o *Outcome, kind Kind, err error) *Error {
	e := &Error{Stage: o.last(), Kind: kind, Err: err}
	o.advance(StageErrored)
	if kind == KindClientInput {
		slog.Info("prediction rejected", "stage", e.Stage, "error", err)
	} else {
		slog.Error("prediction failed", "stage", e.Stage, "kind", kind, "error", err)
	}
	return e
}
