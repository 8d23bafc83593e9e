package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// ChartTransformer implements Transformer by rendering every dataset with a
// fixed layout.
type ChartTransformer struct {
	layout chart.Layout
	logger *slog.Logger
}

// NewTransformer creates a ChartTransformer for the given layout.
func NewTransformer(layout chart.Layout, logger *slog.Logger) *ChartTransformer {
	return &ChartTransformer{
		layout: layout,
		logger: logger,
	}
}

// Transform renders the chart. Malformed records are kept and drawn; they are
// only reported.
func (t *ChartTransformer) Transform(ctx context.Context, ds domain.Dataset) (chart.Chart, error) {
	if err := ctx.Err(); err != nil {
		return chart.Chart{}, err
	}
	if n := ds.MalformedCount(); n > 0 {
		t.logger.Warn("dataset contains malformed records", "count", n, "records", len(ds.Records))
	}
	return chart.Render(ds, t.layout), nil
}
