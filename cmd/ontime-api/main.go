// README: Entry point; loads config and reference data, wires services, starts HTTP server and the cache janitor.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"ontime/internal/config"
	httptransport "ontime/internal/http"
	"ontime/internal/infra"
	"ontime/internal/maps"
	"ontime/internal/modules/airport"
	"ontime/internal/modules/cancellation"
	"ontime/internal/modules/delay"
	"ontime/internal/modules/features"
	"ontime/internal/modules/prediction"
	"ontime/internal/modules/weather"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		fatal("config", err)
	}
	calendarCfg, err := config.LoadCalendar(cfg.Features.File)
	if err != nil {
		fatal("calendar config", err)
	}
	calendar := features.DefaultCalendar().Override(calendarCfg.Holidays, calendarCfg.PeakStart, calendarCfg.PeakEnd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	airportSrc, rateSrc, closeDB, err := referenceSources(ctx, cfg)
	if err != nil {
		fatal("reference source", err)
	}
	defer closeDB()

	var (
		table *airport.Table
		rates *cancellation.Service
		model *prediction.Model
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := airport.Load(gCtx, airportSrc)
		if err != nil {
			return fmt.Errorf("airport table: %w", err)
		}
		table = t
		return nil
	})
	g.Go(func() error {
		svc, results := cancellation.Load(gCtx, rateSrc)
		for _, r := range results {
			slog.Info("cancellation table ready", "table", r.Kind, "outcome", r.Outcome, "entries", len(r.Rates))
		}
		rates = svc
		return nil
	})
	g.Go(func() error {
		m, err := prediction.LoadModel(cfg.Model.Path)
		if err != nil {
			return fmt.Errorf("model artifact: %w", err)
		}
		model = m
		return nil
	})
	if err := g.Wait(); err != nil {
		fatal("startup load", err)
	}
	slog.Info("reference data loaded",
		"airports", table.Len(), "model_version", model.Version(), "threshold", model.Threshold())

	cache, err := weatherCache(ctx, cfg)
	if err != nil {
		fatal("weather cache", err)
	}
	weatherClient := weather.NewClient(weather.Options{
		BaseURL:       cfg.Weather.BaseURL,
		CacheTTL:      cfg.Weather.CacheTTL,
		Retries:       cfg.Weather.Retries,
		BackoffFactor: cfg.Weather.BackoffFactor,
		Timeout:       cfg.Weather.Timeout,
		RatePerSecond: cfg.Weather.RatePerSecond,
	}, cache)

	var geocoder airport.Geocoder
	if cfg.Reference.OnlineFallback {
		if chain := onlineProviders(cfg); len(chain) > 0 {
			geocoder = chain
		} else {
			slog.Warn("online airport fallback enabled but no provider key is set")
		}
	}

	delaySvc := delay.NewService(delay.Deps{
		Airports:        airport.NewService(table, geocoder, cfg.Reference.OnlineFallback),
		Weather:         weatherClient,
		Rates:           rates,
		Builder:         features.NewBuilder(calendar),
		Predictor:       prediction.NewService(model),
		WeatherDeadline: cfg.Weather.Timeout + 2*time.Second,
	})

	gin.SetMode(cfg.HTTP.Mode)
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Delay:       delaySvc,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown", "error", err)
		}
	}()

	slog.Info("ontime api listening", "addr", cfg.HTTP.Addr, "weather_cache", cfg.Weather.CacheBackend,
		"reference_source", cfg.Reference.Source)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("http server", err)
	}
	slog.Info("ontime api stopped")
}

// referenceSources picks CSV files or Postgres tables for the lookup data. The
// returned func releases the pool, if any.
func referenceSources(ctx context.Context, cfg config.Config) (airport.Source, cancellation.Source, func(), error) {
	switch cfg.Reference.Source {
	case "csv", "":
		rc := cfg.Reference
		return airport.NewCSVSource(rc.AirportsCSV),
			cancellation.NewCSVSource(rc.AirlineRatesCSV, rc.OriginRatesCSV, rc.RouteRatesCSV),
			func() {}, nil
	case "postgres":
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return airport.NewPGSource(pool), cancellation.NewPGSource(pool), pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown reference source %q", cfg.Reference.Source)
	}
}

// weatherCache builds the response cache. The in-memory cache gets a janitor
// that lives as long as ctx.
func weatherCache(ctx context.Context, cfg config.Config) (weather.Cache, error) {
	switch cfg.Weather.CacheBackend {
	case "redis":
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()
		return weather.NewRedisCache(client), nil
	case "memory", "":
		mem := weather.NewMemoryCache()
		janitor, err := weather.NewJanitor(mem, cfg.Weather.SweepSchedule)
		if err != nil {
			return nil, err
		}
		go janitor.Run(ctx)
		return mem, nil
	default:
		return nil, fmt.Errorf("unknown weather cache backend %q", cfg.Weather.CacheBackend)
	}
}

// onlineProviders lists the configured coordinate providers: AeroAPI first,
// then Google geocoding.
func onlineProviders(cfg config.Config) maps.Chain {
	var chain maps.Chain
	if cfg.AeroAPIKey != "" {
		aero, err := maps.NewAeroAPI(cfg.AeroAPIKey, cfg.Reference.AeroAPIURL, nil)
		if err != nil {
			slog.Warn("aeroapi provider disabled", "error", err)
		} else {
			chain = append(chain, aero)
		}
	}
	if cfg.GoogleMapsKey != "" {
		gc, err := maps.NewGeocoder(cfg.GoogleMapsKey)
		if err != nil {
			slog.Warn("google geocoding provider disabled", "error", err)
		} else {
			chain = append(chain, gc)
		}
	}
	return chain
}

func fatal(what string, err error) {
	slog.Error("startup failed", "step", what, "error", err)
	os.Exit(1)
}
