package scale

import "time"

// Time maps an instant within [Start, End] onto a pixel range.
type Time struct {
	Start time.Time
	End   time.Time
	Range [2]float64
}

// NewTime builds a time scale.
func NewTime(start, end time.Time, r0, r1 float64) Time {
	return Time{Start: start, End: end, Range: [2]float64{r0, r1}}
}

// Map returns the range value for t, proportional to elapsed time.
func (s Time) Map(t time.Time) float64 {
	return s.linear().Map(float64(t.Sub(s.Start)))
}

func (s Time) linear() Linear {
	return NewLinear(0, float64(s.End.Sub(s.Start)), s.Range[0], s.Range[1])
}

// MonthTicks returns the first instant of every month in [Start, End).
func (s Time) MonthTicks() []time.Time {
	loc := s.Start.Location()
	t := time.Date(s.Start.Year(), s.Start.Month(), 1, 0, 0, 0, 0, loc)
	if t.Before(s.Start) {
		t = t.AddDate(0, 1, 0)
	}

	var ticks []time.Time
	for t.Before(s.End) {
		ticks = append(ticks, t)
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}
