package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ErrNotReady is reported by CheckReadiness until the first chart is stored.
var ErrNotReady = errors.New("no chart has been rendered yet")

// DatasetSource loads the temperature dataset.
type DatasetSource interface {
	FetchDataset(ctx context.Context) (domain.Dataset, error)
}

// Transformer turns a dataset into a rendered chart.
type Transformer interface {
	Transform(ctx context.Context, ds domain.Dataset) (chart.Chart, error)
}

// ChartPublisher receives every newly stored chart.
type ChartPublisher interface {
	PublishChart(ctx context.Context, c *chart.Chart) error
}

// Pipeline orchestrates the fetch-render-publish cycle and holds the current
// chart. Readers always see a complete chart or none at all.
type Pipeline struct {
	source      DatasetSource
	transformer Transformer
	publishers  []ChartPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu         sync.Mutex // serializes Run
	current    atomic.Pointer[chart.Chart]
	generation uint64
}

// New creates a Pipeline with the given stages and observability. Publishers
// are optional.
func New(s DatasetSource, t Transformer, logger *slog.Logger, metrics *observability.Metrics, publishers ...ChartPublisher) *Pipeline {
	return &Pipeline{
		source:      s,
		transformer: t,
		publishers:  publishers,
		logger:      logger,
		metrics:     metrics,
	}
}

// Current returns the most recently stored chart.
func (p *Pipeline) Current() (*chart.Chart, bool) {
	c := p.current.Load()
	return c, c != nil
}

// CheckReadiness returns nil once a chart has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Run performs one load. On a fetch or render failure the previous chart, if
// any, stays in place and the error is returned. Publisher failures are
// logged and counted but do not fail the run.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.source.FetchDataset(ctx)
	if err != nil {
		p.logger.Error("dataset load failed", "error", err)
		return fmt.Errorf("fetch dataset: %w", err)
	}

	c, err := p.transformer.Transform(ctx, ds)
	if err != nil {
		p.logger.Error("chart render failed", "error", err)
		return fmt.Errorf("render chart: %w", err)
	}

	p.generation++
	c.Generation = p.generation
	p.current.Store(&c)

	p.metrics.DatasetRecords.Set(float64(len(ds.Records)))
	p.metrics.MalformedRecords.Set(float64(ds.MalformedCount()))
	p.metrics.ChartReady.Set(1)
	p.logger.Info("chart rendered",
		"generation", c.Generation,
		"records", len(ds.Records),
		"min_year", c.Context.MinYear,
		"max_year", c.Context.MaxYear,
	)

	p.publish(ctx, &c)
	return nil
}

func (p *Pipeline) publish(ctx context.Context, c *chart.Chart) {
	for _, pub := range p.publishers {
		if err := pub.PublishChart(ctx, c); err != nil {
			p.logger.Error("publish chart failed", "error", err, "generation", c.Generation)
			p.metrics.PublishErrors.Inc()
			continue
		}
		p.metrics.CellsPublished.Add(float64(len(c.Cells)))
	}
}
