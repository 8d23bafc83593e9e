package chart

import (
	"encoding/json"
	"math"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Cell is one rectangle of the heatmap.
type Cell struct {
	Year        int
	Month       int // zero-based
	Temperature float64
	Variance    float64
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Fill        string
	Bucket      int
	Tooltip     domain.TooltipContent
}

// Cells maps every record to its rectangle, in dataset order.
func Cells(ctx Context) []Cell {
	base := ctx.Dataset.BaseTemperature
	width := ctx.CellWidth()
	height := ctx.CellHeight()

	cells := make([]Cell, len(ctx.Dataset.Records))
	for i, rec := range ctx.Dataset.Records {
		bucket := domain.ColorBucketFor(rec.Variance)
		cells[i] = Cell{
			Year:        rec.Year,
			Month:       rec.Month - 1,
			Temperature: rec.Temperature(base),
			Variance:    rec.Variance,
			X:           ctx.Years.Map(float64(rec.Year)),
			Y:           ctx.Months.Map(MonthStart(rec.Month)),
			Width:       width,
			Height:      height,
			Fill:        domain.ColorBuckets[bucket].Color,
			Bucket:      bucket,
			Tooltip:     domain.NewTooltipContent(rec, base),
		}
	}
	return cells
}

// MarshalJSON writes non-finite numbers as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year        int                   `json:"year"`
		Month       int                   `json:"month"`
		Temperature *float64              `json:"temperature"`
		Variance    *float64              `json:"variance"`
		X           *float64              `json:"x"`
		Y           *float64              `json:"y"`
		Width       *float64              `json:"width"`
		Height      *float64              `json:"height"`
		Fill        string                `json:"fill"`
		Bucket      int                   `json:"bucket"`
		Tooltip     domain.TooltipContent `json:"tooltip"`
	}{
		Year:        c.Year,
		Month:       c.Month,
		Temperature: finite(c.Temperature),
		Variance:    finite(c.Variance),
		X:           finite(c.X),
		Y:           finite(c.Y),
		Width:       finite(c.Width),
		Height:      finite(c.Height),
		Fill:        c.Fill,
		Bucket:      c.Bucket,
		Tooltip:     c.Tooltip,
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
