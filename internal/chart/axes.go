package chart

import (
	"fmt"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

// Orientation is the side of the plot an axis is drawn on.
type Orientation string

const (
	Bottom Orientation = "bottom"
	Left   Orientation = "left"
)

const (
	tickSize  = 6
	tickCount = 10
)

// Tick is a labelled mark at an offset along the axis.
type Tick struct {
	Value  float64 `json:"value"`
	Offset float64 `json:"offset"`
	Label  string  `json:"label"`
}

// Axis is a rendered axis: a domain line across the scale's range plus ticks,
// translated into place on its surface.
type Axis struct {
	ID         string      `json:"id"`
	Orient     Orientation `json:"orient"`
	TranslateX float64     `json:"translateX"`
	TranslateY float64     `json:"translateY"`
	RangeStart float64     `json:"rangeStart"`
	RangeEnd   float64     `json:"rangeEnd"`
	Ticks      []Tick      `json:"ticks"`
}

// Axes builds the bottom year axis and the left month axis.
func Axes(ctx Context) (x, y Axis) {
	hm := ctx.Layout.Heatmap
	return yearAxis(ctx.Years, hm), monthAxis(ctx.Months, hm)
}

func yearAxis(years scale.Linear, hm Surface) Axis {
	values := years.Ticks(tickCount)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Offset: years.Map(v), Label: scale.FormatInteger(v)}
	}
	return Axis{
		ID:         XAxisID,
		Orient:     Bottom,
		TranslateY: hm.Height - hm.Padding,
		RangeStart: years.Range[0],
		RangeEnd:   years.Range[1],
		Ticks:      ticks,
	}
}

func monthAxis(months scale.Time, hm Surface) Axis {
	starts := months.MonthTicks()
	ticks := make([]Tick, len(starts))
	for i, t := range starts {
		ticks[i] = Tick{
			Value:  float64(t.Month()),
			Offset: months.Map(t),
			Label:  domain.MonthName(int(t.Month())),
		}
	}
	return Axis{
		ID:         YAxisID,
		Orient:     Left,
		TranslateX: hm.Padding,
		RangeStart: months.Range[0],
		RangeEnd:   months.Range[1],
		Ticks:      ticks,
	}
}

// Transform is the SVG transform placing the axis group.
func (a Axis) Transform() string {
	return fmt.Sprintf("translate(%s,%s)", formatNumber(a.TranslateX), formatNumber(a.TranslateY))
}

// DomainPath is the SVG path of the axis line with outer ticks.
func (a Axis) DomainPath() string {
	r0, r1 := formatNumber(a.RangeStart), formatNumber(a.RangeEnd)
	if a.Orient == Left {
		return fmt.Sprintf("M-%d,%sH0V%sH-%d", tickSize, r0, r1, tickSize)
	}
	return fmt.Sprintf("M%s,%dV0H%sV%d", r0, tickSize, r1, tickSize)
}

// TickTransform places a tick group along the axis.
func (a Axis) TickTransform(t Tick) string {
	if a.Orient == Left {
		return fmt.Sprintf("translate(0,%s)", formatNumber(t.Offset))
	}
	return fmt.Sprintf("translate(%s,0)", formatNumber(t.Offset))
}

// Vertical reports whether the axis runs top to bottom.
func (a Axis) Vertical() bool {
	return a.Orient == Left
}
