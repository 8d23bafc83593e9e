package chart

import (
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

// monthEpoch anchors the month scale. Only month offsets within the year
// matter; 1900 is not a leap year.
var monthEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Context is everything the renderers derive from a dataset, computed once
// per load. It is passed by value and never modified.
type Context struct {
	Dataset domain.Dataset
	Layout  Layout
	MinYear int
	MaxYear int
	Years   scale.Linear
	Months  scale.Time
}

// NewContext scans the dataset for its year extent and builds the year and
// month scales. Calling it twice with the same inputs yields equal values.
func NewContext(ds domain.Dataset, layout Layout) Context {
	minYear, maxYear := ds.YearExtent()
	hm := layout.Heatmap

	return Context{
		Dataset: ds,
		Layout:  layout,
		MinYear: minYear,
		MaxYear: maxYear,
		Years: scale.NewLinear(
			float64(minYear), float64(maxYear+1),
			hm.Padding, hm.Width-hm.Padding,
		),
		Months: scale.NewTime(
			monthEpoch, monthEpoch.AddDate(1, 0, 0),
			hm.Padding, hm.Height-hm.Padding,
		),
	}
}

// YearSpan is maxYear - minYear, floored at 1 so a single-year dataset still
// gets a finite column width.
func (c Context) YearSpan() int {
	return max(1, c.MaxYear-c.MinYear)
}

// CellWidth is shared by every cell: one column per year.
func (c Context) CellWidth() float64 {
	return c.Layout.Heatmap.InnerWidth() / float64(c.YearSpan())
}

// CellHeight is shared by every cell: one row per month.
func (c Context) CellHeight() float64 {
	return c.Layout.Heatmap.InnerHeight() / 12
}

// MonthStart returns the first instant of a 1-based month on the month
// scale's calendar. Out-of-range months roll into adjacent years.
func MonthStart(month int) time.Time {
	return time.Date(monthEpoch.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
