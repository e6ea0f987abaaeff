// README: Feature builder derives calendar features and merges cancellation rates and weather aggregates.
package features

import (
	"ontime/internal/modules/weather"
	"ontime/internal/types"
)

// RateLookup answers 30-day cancellation rates; misses must return 0.0.
type RateLookup interface {
	AirlineRate(code string) float64
	OriginRate(code string) float64
	RouteRate(code string) float64
}

type Builder struct {
	calendar Calendar
}

func NewBuilder(calendar Calendar) *Builder {
	return &Builder{calendar: calendar}
}

// Build returns a complete Record. Every schema key is always set: a nil rates
// lookup or an empty window contribute zeros.
func (b *Builder) Build(req types.FlightRequest, rates RateLookup, window weather.Window) Record {
	r := b.base(req)
	withCancellationRates(r, req, rates)
	withWeather(r, weather.Aggregate(window))
	return r
}

// base derives the calendar features in the request's own timezone.
func (b *Builder) base(req types.FlightRequest) Record {
	dt := req.Departure
	dow := isoWeekday(dt)
	weekend := dow >= 5
	holiday := b.calendar.IsHoliday(dt)

	return Record{
		Airline:       req.Airline,
		Route:         req.Route(),
		HourBucket:    hourBucket(dt.Hour()),
		DayOfWeek:     dow,
		Month:         int(dt.Month()),
		IsPeakHour:    boolToInt(b.calendar.IsPeakHour(dt)),
		IsWeekend:     boolToInt(weekend),
		IsHoliday:     boolToInt(holiday),
		IsLongWeekend: boolToInt(holiday && weekend),
	}
}

func withCancellationRates(r Record, req types.FlightRequest, rates RateLookup) {
	r[CancelRateAirline30d] = 0.0
	r[CancelRateOrigin30d] = 0.0
	r[CancelRateRoute30d] = 0.0
	if rates == nil {
		return
	}
	r[CancelRateAirline30d] = rates.AirlineRate(req.Airline)
	r[CancelRateOrigin30d] = rates.OriginRate(req.Origin)
	r[CancelRateRoute30d] = rates.RouteRate(req.Route())
}

func withWeather(r Record, agg weather.Aggregates) {
	r[WindMax1h] = agg.WindMax1h
	r[CloudMean1h] = agg.CloudMean1h
	r[RainSum1h] = agg.RainSum1h
	r[SnowSum1h] = agg.SnowSum1h
}
