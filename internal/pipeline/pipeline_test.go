package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

type mockSource struct {
	datasets []domain.Dataset
	err      error
	calls    atomic.Int64
}

func (m *mockSource) FetchDataset(_ context.Context) (domain.Dataset, error) {
	i := int(m.calls.Add(1) - 1)
	if m.err != nil {
		return domain.Dataset{}, m.err
	}
	if i >= len(m.datasets) {
		i = len(m.datasets) - 1
	}
	return m.datasets[i], nil
}

type mockPublisher struct {
	mu     sync.Mutex
	charts []*chart.Chart
	err    error
}

func (m *mockPublisher) PublishChart(_ context.Context, c *chart.Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.charts = append(m.charts, c)
	return nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		BaseTemperature: 8.66,
		Records: []domain.TemperatureRecord{
			{Year: 1950, Month: 1, Variance: -0.5},
			{Year: 2000, Month: 6, Variance: 1.2},
		},
	}
}

func newPipeline(src pipeline.DatasetSource, metrics *observability.Metrics, pubs ...pipeline.ChartPublisher) *pipeline.Pipeline {
	return pipeline.New(src, pipeline.NewTransformer(chart.DefaultLayout(), slog.Default()), slog.Default(), metrics, pubs...)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	src := &mockSource{datasets: []domain.Dataset{sampleDataset()}}
	pub := &mockPublisher{}
	metrics := newTestMetrics()
	p := newPipeline(src, metrics, pub)

	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)

	require.NoError(t, p.Run(context.Background()))

	c, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(1), c.Generation)
	assert.Len(t, c.Cells, 2)
	assert.Equal(t, 1950, c.Context.MinYear)
	assert.Equal(t, 2000, c.Context.MaxYear)
	require.NoError(t, p.CheckReadiness(context.Background()))

	require.Len(t, pub.charts, 1)
	assert.Same(t, c, pub.charts[0])

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.DatasetRecords), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.MalformedRecords), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartReady), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CellsPublished), 0)
}

func TestPipeline_Run_FetchErrorLeavesNoChart(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	metrics := newTestMetrics()
	p := newPipeline(src, metrics)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	_, ok := p.Current()
	assert.False(t, ok)
	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotReady)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ChartReady), 0)
}

func TestPipeline_Run_FetchErrorKeepsPreviousChart(t *testing.T) {
	src := &mockSource{datasets: []domain.Dataset{sampleDataset()}}
	p := newPipeline(src, newTestMetrics())
	require.NoError(t, p.Run(context.Background()))
	before, _ := p.Current()

	src.err = errors.New("status 503")
	require.Error(t, p.Run(context.Background()))

	after, ok := p.Current()
	require.True(t, ok)
	assert.Same(t, before, after)
}

func TestPipeline_Run_PublishErrorIsCounted(t *testing.T) {
	src := &mockSource{datasets: []domain.Dataset{sampleDataset()}}
	failing := &mockPublisher{err: errors.New("broker unavailable")}
	working := &mockPublisher{}
	metrics := newTestMetrics()
	p := newPipeline(src, metrics, failing, working)

	require.NoError(t, p.Run(context.Background()))

	_, ok := p.Current()
	assert.True(t, ok)
	assert.Len(t, working.charts, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CellsPublished), 0)
}

func TestPipeline_Run_GenerationIncrements(t *testing.T) {
	second := sampleDataset()
	second.Records = append(second.Records, domain.TemperatureRecord{Year: 2010, Month: 12, Variance: 0.3})
	src := &mockSource{datasets: []domain.Dataset{sampleDataset(), second}}
	p := newPipeline(src, newTestMetrics())

	require.NoError(t, p.Run(context.Background()))
	first, _ := p.Current()
	require.NoError(t, p.Run(context.Background()))
	latest, _ := p.Current()

	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), latest.Generation)
	assert.Len(t, first.Cells, 2, "stored charts are never mutated")
	assert.Len(t, latest.Cells, 3)
}

func TestPipeline_Run_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &mockSource{datasets: []domain.Dataset{sampleDataset()}}
	p := newPipeline(src, newTestMetrics())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Run(context.Background()))
			c, ok := p.Current()
			if assert.True(t, ok) {
				assert.Len(t, c.Cells, 2)
			}
		}()
	}
	wg.Wait()

	c, _ := p.Current()
	assert.Equal(t, uint64(8), c.Generation)
}

func TestPipeline_Run_MalformedRecordsAreKept(t *testing.T) {
	ds := sampleDataset()
	ds.Records = append(ds.Records, domain.TemperatureRecord{Year: 1980, Month: 0, Variance: 0.1})
	metrics := newTestMetrics()
	p := newPipeline(&mockSource{datasets: []domain.Dataset{ds}}, metrics)

	require.NoError(t, p.Run(context.Background()))
	c, _ := p.Current()
	assert.Len(t, c.Cells, 3)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MalformedRecords), 0)
}

func TestChartTransformer_CancelledContext(t *testing.T) {
	tr := pipeline.NewTransformer(chart.DefaultLayout(), slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Transform(ctx, sampleDataset())
	require.ErrorIs(t, err, context.Canceled)
}

func TestChartTransformer_WithFixtureData(t *testing.T) {
	f, err := os.Open("testdata/global-temperature.json")
	require.NoError(t, err)
	defer f.Close()

	ds, err := domain.DecodeDataset(f)
	require.NoError(t, err)

	c, err := pipeline.NewTransformer(chart.DefaultLayout(), slog.Default()).Transform(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, c.Cells, 33)
	assert.Equal(t, 1753, c.Context.MinYear)
	assert.Equal(t, 2015, c.Context.MaxYear)

	first := c.Cells[0]
	want := domain.TooltipContent{
		Year:        1753,
		Month:       0,
		Title:       "1753 - January",
		Temperature: "7.3℃",
		Variance:    "-1.366℃",
	}
	if diff := cmp.Diff(want, first.Tooltip); diff != "" {
		t.Errorf("first tooltip mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 60, first.X, 1e-9)
	assert.InDelta(t, 60, first.Y, 1e-9)
	assert.Equal(t, domain.ColorFor(-1.366), first.Fill)
}
