// README: Feature record handed to the classifier, with the fixed training schema.
package features

const (
	Airline              = "airline"
	Route                = "route"
	HourBucket           = "hour_bucket"
	DayOfWeek            = "day_of_week"
	Month                = "month"
	IsPeakHour           = "is_peak_hour"
	IsWeekend            = "is_weekend"
	IsHoliday            = "is_holiday"
	IsLongWeekend        = "is_long_weekend"
	CancelRateAirline30d = "cancel_rate_airline_30d"
	CancelRateOrigin30d  = "cancel_rate_origin_30d"
	CancelRateRoute30d   = "cancel_rate_route_30d"
	WindMax1h            = "wind_max_1h"
	CloudMean1h          = "cloud_mean_1h"
	RainSum1h            = "rain_sum_1h"
	SnowSum1h            = "snow_sum_1h"
)

// Schema lists every key of a Record in the order the model was trained with.
var Schema = []string{
	Airline, Route,
	HourBucket, DayOfWeek, Month,
	IsPeakHour, IsWeekend, IsHoliday, IsLongWeekend,
	WindMax1h, CloudMean1h, RainSum1h, SnowSum1h,
	CancelRateAirline30d, CancelRateOrigin30d, CancelRateRoute30d,
}

// Record is a flat feature mapping. Values are string, int or float64.
type Record map[string]any

// Missing returns the schema keys absent from r.
func (r Record) Missing() []string {
	var out []string
	for _, k := range Schema {
		if _, ok := r[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
