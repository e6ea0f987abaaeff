// README: Open-Meteo client fetching the hourly window before departure, with cache, retry and rate limit.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	hourlyVariables = "windspeed_10m,cloudcover,rain,snowfall"
	hourlyLayout    = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
	windowLength    = time.Hour
)

var (
	ErrUpstreamStatus    = errors.New("weather api returned non-success status")
	ErrMalformedResponse = errors.New("malformed weather response")
)

type Options struct {
	BaseURL       string
	CacheTTL      time.Duration
	Retries       int
	BackoffFactor float64
	Timeout       time.Duration
	RatePerSecond float64
	HTTPClient    *http.Client
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Hour
	}
	if o.Retries <= 0 {
		o.Retries = 5
	}
	if o.BackoffFactor < 0 {
		o.BackoffFactor = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return o
}

// Client is safe for concurrent use.
type Client struct {
	opts    Options
	cache   Cache
	limiter *rate.Limiter
}

// NewClient builds a client. cache may be nil to disable caching.
func NewClient(opts Options, cache Cache) *Client {
	opts = opts.withDefaults()
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	return &Client{
		opts:    opts,
		cache:   cache,
		limiter: rate.NewLimiter(limit, 1),
	}
}

type forecastResponse struct {
	Hourly *struct {
		Time       []string   `json:"time"`
		WindSpeed  []*float64 `json:"windspeed_10m"`
		CloudCover []*float64 `json:"cloudcover"`
		Rain       []*float64 `json:"rain"`
		Snowfall   []*float64 `json:"snowfall"`
	} `json:"hourly"`
}

// FetchWindow returns the hourly samples in [departure-1h, departure] (UTC) at the
// given coordinates. Any failure degrades to an empty window.
func (c *Client) FetchWindow(ctx context.Context, lat, lon float64, departure time.Time) Result {
	end := departure.UTC()
	start := end.Add(-windowLength)
	params := requestParams(lat, lon, start, end)
	key := cacheKey(params)

	if body, ok := c.cached(ctx, key); ok {
		window, err := parseWindow(body, start, end)
		if err == nil {
			return Result{Window: window, Outcome: OutcomeCached}
		}
		slog.Warn("discarding unreadable cached weather response", "key", key, "error", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	body, err := c.getWithRetry(ctx, c.opts.BaseURL+"?"+params.Encode())
	if err != nil {
		slog.Warn("weather unavailable, using empty window", "lat", lat, "lon", lon, "departure", end, "error", err)
		return degraded(err)
	}
	window, err := parseWindow(body, start, end)
	if err != nil {
		slog.Warn("weather response unusable, using empty window", "lat", lat, "lon", lon, "error", err)
		return degraded(err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.opts.CacheTTL); err != nil {
			slog.Warn("weather cache write failed", "key", key, "error", err)
		}
	}
	return Result{Window: window, Outcome: OutcomeFetched}
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("weather cache read failed", "key", key, "error", err)
		return nil, false
	}
	return body, ok
}

// getWithRetry makes up to Retries attempts, sleeping BackoffFactor*2^(n-1) seconds
// between them. Only transport errors, 429 and 5xx are retried.
func (c *Client) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var (
		body     []byte
		lastErr  error
		attempts int
	)
	op := func() error {
		attempts++
		b, retryable, err := c.get(ctx, rawURL)
		if err != nil {
			lastErr = err
			if !retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	err := backoff.Retry(op, newBackOff(ctx, c.opts.BackoffFactor, c.opts.Retries))
	switch {
	case err == nil:
		return body, nil
	case lastErr != nil && err != lastErr:
		// Context ended while waiting; keep the upstream failure in the message.
		return nil, fmt.Errorf("%w (last error: %v)", err, lastErr)
	case attempts > 1:
		return nil, fmt.Errorf("after %d attempts: %w", attempts, err)
	default:
		return nil, err
	}
}

// newBackOff yields factor*2^(n-1) seconds for retries 1..retries-1, then stops.
// It stops early once ctx is done.
func newBackOff(ctx context.Context, factor float64, retries int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Duration(factor * float64(time.Second))
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Hour
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = &backoff.StopBackOff{}
	if retries > 1 {
		b = backoff.WithMaxRetries(exp, uint64(retries-1))
	}
	return backoff.WithContext(b, ctx)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create weather request: %w", err)
	}
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	return body, false, nil
}

func requestParams(lat, lon float64, start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	v.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	v.Set("hourly", hourlyVariables)
	v.Set("start_date", start.Format(dateLayout))
	v.Set("end_date", end.Format(dateLayout))
	v.Set("timezone", "UTC")
	return v
}

// cacheKey is the encoded query; url.Values.Encode sorts keys so equal requests share a key.
func cacheKey(params url.Values) string {
	return params.Encode()
}

func parseWindow(body []byte, start, end time.Time) (Window, error) {
	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Window{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	h := resp.Hourly
	if h == nil {
		return Window{}, fmt.Errorf("%w: missing hourly block", ErrMalformedResponse)
	}
	n := len(h.Time)
	if len(h.WindSpeed) != n || len(h.CloudCover) != n || len(h.Rain) != n || len(h.Snowfall) != n {
		return Window{}, fmt.Errorf("%w: hourly series lengths differ", ErrMalformedResponse)
	}

	var w Window
	for i, raw := range h.Time {
		t, err := time.ParseInLocation(hourlyLayout, raw, time.UTC)
		if err != nil {
			return Window{}, fmt.Errorf("%w: hourly time %q", ErrMalformedResponse, raw)
		}
		if t.Before(start) || t.After(end) {
			continue
		}
		if h.WindSpeed[i] == nil || h.CloudCover[i] == nil || h.Rain[i] == nil || h.Snowfall[i] == nil {
			continue
		}
		w.Samples = append(w.Samples, Sample{
			Time:       t,
			WindSpeed:  *h.WindSpeed[i],
			CloudCover: *h.CloudCover[i],
			Rain:       *h.Rain[i],
			Snowfall:   *h.Snowfall[i],
		})
	}
	return w, nil
}
