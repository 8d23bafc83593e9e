// Package chart turns a temperature dataset into the heatmap scene: cells,
// axes, legend and tooltip, then writes it out as SVG and HTML.
package chart

import (
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Chart is a fully rendered heatmap. It is immutable once built.
type Chart struct {
	Context     Context
	Cells       []Cell
	XAxis       Axis
	YAxis       Axis
	Legend      Legend
	Tooltip     domain.Tooltip
	Generation  uint64
	GeneratedAt time.Time
}

// Render runs the scale builder and every renderer over the dataset. The
// tooltip starts hidden.
func Render(ds domain.Dataset, layout Layout) Chart {
	ctx := NewContext(ds, layout)
	x, y := Axes(ctx)

	return Chart{
		Context:     ctx,
		Cells:       Cells(ctx),
		XAxis:       x,
		YAxis:       y,
		Legend:      NewLegend(ds, layout.Legend),
		GeneratedAt: domain.Now(),
	}
}

// Cell returns the first cell for a year and zero-based month.
func (c *Chart) Cell(year, month int) (Cell, bool) {
	for _, cell := range c.Cells {
		if cell.Year == year && cell.Month == month {
			return cell, true
		}
	}
	return Cell{}, false
}

// Hover returns the tooltip state after a pointer enters the given cell at
// (x, y).
func (c *Chart) Hover(cell Cell, x, y float64) domain.Tooltip {
	return c.Tooltip.Enter(cell.Tooltip, x, y)
}
