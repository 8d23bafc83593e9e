// Package scale maps data values onto pixel coordinates and generates axis
// ticks for them.
package scale

import (
	"math"
	"strconv"
	"strings"
)

// Linear maps a continuous numeric domain onto a pixel range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear builds a linear scale from domain [d0, d1] to range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map returns the range value for v. A degenerate domain maps every value to
// the middle of the range.
func (s Linear) Map(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	t := 0.5
	if span != 0 {
		t = (v - s.Domain[0]) / span
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Ticks returns roughly count evenly spaced, human-friendly values inside the
// domain.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.Domain[0], s.Domain[1], count)
}

// TickFormat returns a formatter whose precision matches the tick step.
func (s Linear) TickFormat(count int) func(float64) string {
	step := TickStep(s.Domain[0], s.Domain[1], count)
	decimals := 0
	if step != 0 && !math.IsNaN(step) && !math.IsInf(step, 0) {
		decimals = max(0, -int(math.Floor(math.Log10(math.Abs(step)))))
	}
	return func(v float64) string {
		return formatFixed(v, decimals)
	}
}

// FormatInteger renders a tick value as a whole number.
func FormatInteger(v float64) string {
	return formatFixed(math.Round(v), 0)
}

// Minus is the sign written before negative tick labels.
const Minus = "\u2212"

// formatFixed writes v with the given decimals, using Minus for negatives.
// A value that rounds to zero carries no sign.
func formatFixed(v float64, decimals int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	if math.Signbit(v) && strings.Trim(s, "0.") != "" {
		return Minus + s
	}
	return s
}
