package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DegreesCelsius is the unit suffix used in tooltip text.
const DegreesCelsius = "℃"

// TooltipContent is the text shown while hovering a cell.
type TooltipContent struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"` // zero-based, matches the cell's data-month
	Title       string `json:"title"`
	Temperature string `json:"temperature"`
	Variance    string `json:"variance"`
}

// NewTooltipContent formats the hover text for a record.
func NewTooltipContent(rec TemperatureRecord, base float64) TooltipContent {
	return TooltipContent{
		Year:        rec.Year,
		Month:       rec.Month - 1,
		Title:       fmt.Sprintf("%d - %s", rec.Year, MonthName(rec.Month)),
		Temperature: FormatPrecision(rec.Temperature(base), 2) + DegreesCelsius,
		Variance:    FormatSignedVariance(rec.Variance) + DegreesCelsius,
	}
}

// MonthName returns the English name of a 1-based month, or "" when out of
// range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// FormatPrecision formats v with the given number of significant digits,
// switching to exponent notation for very large or very small magnitudes.
func FormatPrecision(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if digits < 1 {
		digits = 1
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	a := math.Abs(v)
	// strconv rounds exact ties to even; ties here round away from zero.
	if isDecimalTie(a, digits) {
		a = math.Nextafter(a, math.Inf(1))
	}

	// Round once in exponent form so the exponent reflects carries (9.96 -> 1.0e+01).
	sci := strconv.FormatFloat(a, 'e', digits-1, 64)
	mant, expStr, _ := strings.Cut(sci, "e")
	exp, err := strconv.Atoi(expStr)
	if err != nil {
		return sign + sci
	}

	if exp < -6 || exp >= digits {
		expSign := "+"
		if exp < 0 {
			expSign = "-"
			exp = -exp
		}
		return sign + mant + "e" + expSign + strconv.Itoa(exp)
	}
	return sign + strconv.FormatFloat(a, 'f', digits-1-exp, 64)
}

// isDecimalTie reports whether the exact decimal value of a non-negative a
// lies halfway between two numbers of the given significant digits.
func isDecimalTie(a float64, digits int) bool {
	// 767 digits hold the exact expansion of any float64.
	mant, _, _ := strings.Cut(strconv.FormatFloat(a, 'e', 767, 64), "e")
	mant = strings.Replace(mant, ".", "", 1)
	if len(mant) <= digits {
		return false
	}
	rest := mant[digits:]
	return rest[0] == '5' && strings.TrimRight(rest[1:], "0") == ""
}

// FormatSignedVariance renders a variance with an explicit "+" unless the
// shortest representation already starts with a minus sign.
func FormatSignedVariance(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, "-") {
		return s
	}
	return "+" + s
}

// TooltipState is the visibility of the hover overlay.
type TooltipState int

const (
	TooltipHidden TooltipState = iota
	TooltipVisible
)

func (s TooltipState) String() string {
	if s == TooltipVisible {
		return "visible"
	}
	return "hidden"
}

// MarshalText encodes the state by name.
func (s TooltipState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tooltip is the hover overlay. The zero value is hidden. Transitions return
// a new value; the last event applied wins.
type Tooltip struct {
	State   TooltipState   `json:"state"`
	Content TooltipContent `json:"content"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
}

// Enter shows the tooltip for a cell at the pointer position.
func (t Tooltip) Enter(content TooltipContent, x, y float64) Tooltip {
	return Tooltip{State: TooltipVisible, Content: content, X: x, Y: y}
}

// Leave hides the tooltip. The last content and position are kept.
func (t Tooltip) Leave() Tooltip {
	t.State = TooltipHidden
	return t
}

// Visible reports whether the tooltip is shown.
func (t Tooltip) Visible() bool {
	return t.State == TooltipVisible
}
