package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSource struct {
	chart *chart.Chart
}

func (m *mockSource) Current() (*chart.Chart, bool) { return m.chart, m.chart != nil }

func loadedChart() *chart.Chart {
	ds := domain.Dataset{
		BaseTemperature: 8.66,
		Records: []domain.TemperatureRecord{
			{Year: 1950, Month: 1, Variance: -0.5},
			{Year: 2000, Month: 6, Variance: 1.2},
		},
	}
	c := chart.Render(ds, chart.DefaultLayout())
	c.Generation = 1
	return &c
}

func newTestServer(c *chart.Chart, readyErr error) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	srv := httpadapter.NewServer(":0", &mockSource{chart: c}, &mockReadiness{err: readyErr}, 4, metrics, slog.Default())
	return srv, metrics
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(nil, nil)
	rec := get(srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(nil, fmt.Errorf("no chart has been rendered yet"))
	rec := get(srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil, nil)
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestChartRoutesReturn503BeforeLoad(t *testing.T) {
	srv, _ := newTestServer(nil, nil)

	for _, target := range []string{"/", "/heatmap.svg", "/legend.svg", "/api/cells", "/api/tooltip?year=1950&month=0"} {
		t.Run(target, func(t *testing.T) {
			rec := get(srv, target)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "chart not loaded", body["error"])
		})
	}
}

func TestPage(t *testing.T) {
	srv, metrics := newTestServer(loadedChart(), nil)
	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `id="title"`)
	assert.Contains(t, body, `id="description"`)
	assert.Contains(t, body, `<svg id="canvas"`)
	assert.Contains(t, body, `<svg id="legend"`)
	assert.Contains(t, body, `id="tooltip"`)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Renders.WithLabelValues("page")), 0)
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeatmapSVG(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/heatmap.svg")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `width="1000" height="500"`)
	assert.Contains(t, body, `class="cell"`)
	assert.Contains(t, body, `id="x-axis"`)
	assert.Contains(t, body, `id="y-axis"`)
}

func TestHeatmapSVG_Resized(t *testing.T) {
	srv, metrics := newTestServer(loadedChart(), nil)

	rec := get(srv, "/heatmap.svg?width=800&height=400")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `width="800" height="400"`)

	rec = get(srv, "/heatmap.svg?width=800&height=400")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("hit")), 0)
}

func TestHeatmapSVG_WidthOnly(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/heatmap.svg?width=1200")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `width="1200" height="500"`)
}

func TestHeatmapSVG_InvalidSize(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"too small", "width=100", "invalid width"},
		{"too large", "height=5000", "invalid height"},
		{"not a number", "width=wide", "invalid width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(srv, "/heatmap.svg?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestLegendSVG(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/legend.svg")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<svg id="legend"`)
	assert.Contains(t, rec.Body.String(), `id="legend-axis"`)
}

func TestCellsAPI(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/api/cells")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Generation      uint64  `json:"generation"`
		BaseTemperature float64 `json:"base_temperature"`
		MinYear         int     `json:"min_year"`
		MaxYear         int     `json:"max_year"`
		Cells           []struct {
			Year  int    `json:"year"`
			Month int    `json:"month"`
			Fill  string `json:"fill"`
		} `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, uint64(1), body.Generation)
	assert.InDelta(t, 8.66, body.BaseTemperature, 1e-9)
	assert.Equal(t, 1950, body.MinYear)
	assert.Equal(t, 2000, body.MaxYear)
	require.Len(t, body.Cells, 2)
	assert.Equal(t, 5, body.Cells[1].Month)
	assert.Equal(t, domain.ColorFor(1.2), body.Cells[1].Fill)
}

func TestTooltipAPI(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)
	rec := get(srv, "/api/tooltip?year=1950&month=0&x=120&y=64.5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		State   string `json:"state"`
		Content struct {
			Title       string `json:"title"`
			Temperature string `json:"temperature"`
			Variance    string `json:"variance"`
		} `json:"content"`
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "visible", body.State)
	assert.Equal(t, "1950 - January", body.Content.Title)
	assert.Equal(t, "8.2℃", body.Content.Temperature)
	assert.Equal(t, "-0.5℃", body.Content.Variance)
	assert.InDelta(t, 120, body.X, 0)
	assert.InDelta(t, 64.5, body.Y, 0)
}

func TestTooltipAPI_Errors(t *testing.T) {
	srv, _ := newTestServer(loadedChart(), nil)

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"missing year", "month=0", http.StatusBadRequest},
		{"missing month", "year=1950", http.StatusBadRequest},
		{"month out of range", "year=1950&month=12", http.StatusBadRequest},
		{"bad x", "year=1950&month=0&x=left", http.StatusBadRequest},
		{"no such cell", "year=1950&month=5", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(srv, "/api/tooltip?"+tt.query)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
