package chart

import (
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
)

// Legend is an axis over absolute temperature. It has no colour swatches.
type Legend struct {
	Surface        Surface      `json:"surface"`
	MinTemperature float64      `json:"-"`
	MaxTemperature float64      `json:"-"`
	Scale          scale.Linear `json:"-"`
	Axis           Axis         `json:"axis"`
}

// NewLegend scales the dataset's absolute temperature extent onto the legend
// surface and builds its bottom axis.
func NewLegend(ds domain.Dataset, surface Surface) Legend {
	lo, hi := ds.TemperatureExtent()
	s := scale.NewLinear(lo, hi, surface.Padding, surface.Width-surface.Padding)

	format := s.TickFormat(tickCount)
	values := s.Ticks(tickCount)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Offset: s.Map(v), Label: format(v)}
	}

	return Legend{
		Surface:        surface,
		MinTemperature: lo,
		MaxTemperature: hi,
		Scale:          s,
		Axis: Axis{
			ID:         LegendAxisID,
			Orient:     Bottom,
			TranslateY: surface.Height - surface.Padding,
			RangeStart: s.Range[0],
			RangeEnd:   s.Range[1],
			Ticks:      ticks,
		},
	}
}
