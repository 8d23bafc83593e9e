package chart

// Surface is a drawing area in logical SVG units.
type Surface struct {
	ID      string  `json:"id"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// InnerWidth is the width left between the left and right padding.
func (s Surface) InnerWidth() float64 { return s.Width - 2*s.Padding }

// InnerHeight is the height left between the top and bottom padding.
func (s Surface) InnerHeight() float64 { return s.Height - 2*s.Padding }

// Layout holds the heatmap and legend surfaces.
type Layout struct {
	Heatmap Surface `json:"heatmap"`
	Legend  Surface `json:"legend"`
}

// Element ids addressed by the page script and by automated checks.
const (
	HeatmapID = "canvas"
	LegendID  = "legend"
	TooltipID = "tooltip"
	XAxisID   = "x-axis"
	YAxisID   = "y-axis"

	LegendAxisID = "legend-axis"
)

// DefaultLayout is the 1000×500 heatmap with a 550×150 legend.
func DefaultLayout() Layout {
	return Layout{
		Heatmap: Surface{ID: HeatmapID, Width: 1000, Height: 500, Padding: 60},
		Legend:  Surface{ID: LegendID, Width: 550, Height: 150, Padding: 50},
	}
}

// WithHeatmapSize returns a copy of the layout with a resized heatmap
// surface. Padding and the legend are unchanged.
func (l Layout) WithHeatmapSize(width, height float64) Layout {
	l.Heatmap.Width = width
	l.Heatmap.Height = height
	return l
}
