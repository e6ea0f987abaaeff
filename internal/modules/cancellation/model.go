// README: 30-day cancellation-rate tables keyed by airline, origin airport and route.
package cancellation

import (
	"math"
	"strings"
)

type Kind string

const (
	KindAirline Kind = "airline"
	KindOrigin  Kind = "origin"
	KindRoute   Kind = "route"
)

// Columns returns the key and rate column names a source carries for this kind.
func (k Kind) Columns() (key, rate string) {
	return string(k), "cancel_rate_" + string(k) + "_30d"
}

type Outcome string

const (
	OutcomeLoaded    Outcome = "loaded"
	OutcomeDefaulted Outcome = "defaulted"
)

// Rates is one read-only table. A missing key means no history, not an error.
type Rates map[string]float64

func NewRates(entries map[string]float64) Rates {
	r := make(Rates, len(entries))
	for k, v := range entries {
		r[strings.ToUpper(strings.TrimSpace(k))] = sanitize(v)
	}
	return r
}

func (r Rates) Rate(code string) float64 {
	return r[strings.ToUpper(strings.TrimSpace(code))]
}

// LoadResult records whether a table came from its source or fell back to empty.
type LoadResult struct {
	Kind    Kind
	Rates   Rates
	Outcome Outcome
	Err     error
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
