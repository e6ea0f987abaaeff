// README: Hourly weather samples for the hour preceding departure, and their aggregates.
package weather

import "time"

// Sample is one hourly observation.
type Sample struct {
	Time       time.Time
	WindSpeed  float64
	CloudCover float64
	Rain       float64
	Snowfall   float64
}

// Window is the ordered set of samples in [departure-1h, departure]. An empty
// window is a valid state meaning no weather signal.
type Window struct {
	Samples []Sample
}

func (w Window) Empty() bool {
	return len(w.Samples) == 0
}

type Outcome string

const (
	OutcomeFetched  Outcome = "fetched"
	OutcomeCached   Outcome = "cached"
	OutcomeDegraded Outcome = "degraded"
)

// Result is what FetchWindow hands back. A degraded result carries an empty
// window and the cause; it is never returned as an error.
type Result struct {
	Window  Window
	Outcome Outcome
	Err     error
}

func degraded(err error) Result {
	return Result{Outcome: OutcomeDegraded, Err: err}
}

type Aggregates struct {
	WindMax1h   float64
	CloudMean1h float64
	RainSum1h   float64
	SnowSum1h   float64
}
