package features

import "time"

var defaultHolidays = []string{"01-01", "12-25"}

const (
	defaultPeakStart = 6
	defaultPeakEnd   = 10
)

// Calendar holds the fixed holiday set ("MM-DD", no year) and the peak-hour
// window [PeakStart, PeakEnd).
type Calendar struct {
	holidays  map[string]struct{}
	PeakStart int
	PeakEnd   int
}

func DefaultCalendar() Calendar {
	return NewCalendar(defaultHolidays, defaultPeakStart, defaultPeakEnd)
}

func NewCalendar(holidays []string, peakStart, peakEnd int) Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	return Calendar{holidays: set, PeakStart: peakStart, PeakEnd: peakEnd}
}

// Override returns a copy with the holiday set replaced when holidays is non-empty
// and each peak bound replaced when set.
func (c Calendar) Override(holidays []string, peakStart, peakEnd *int) Calendar {
	out := Calendar{holidays: c.holidays, PeakStart: c.PeakStart, PeakEnd: c.PeakEnd}
	if len(holidays) > 0 {
		out = NewCalendar(holidays, c.PeakStart, c.PeakEnd)
	}
	if peakStart != nil {
		out.PeakStart = *peakStart
	}
	if peakEnd != nil {
		out.PeakEnd = *peakEnd
	}
	return out
}

func (c Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[t.Format("01-02")]
	return ok
}

func (c Calendar) IsPeakHour(t time.Time) bool {
	return t.Hour() >= c.PeakStart && t.Hour() < c.PeakEnd
}

func hourBucket(hour int) int {
	switch {
	case hour < 6:
		return 0
	case hour < 12:
		return 1
	case hour < 18:
		return 2
	default:
		return 3
	}
}

// isoWeekday maps time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
