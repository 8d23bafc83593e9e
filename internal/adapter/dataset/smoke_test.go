//go:build smoke

package dataset

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// These tests download the published dataset.
// Run with: go test -tags=smoke ./internal/adapter/dataset/ -v -count=1

func TestSmoke_FetchPublishedDataset(t *testing.T) {
	c := NewClient(config.DefaultDatasetURL, 30*time.Second, 1,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ds, err := c.FetchDataset(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 8.66, ds.BaseTemperature, 1e-9)
	assert.Greater(t, len(ds.Records), 3000)
	assert.Zero(t, ds.MalformedCount())

	minYear, maxYear := ds.YearExtent()
	assert.Equal(t, 1753, minYear)
	assert.Equal(t, 2015, maxYear)

	first := ds.Records[0]
	assert.Equal(t, 1753, first.Year)
	assert.Equal(t, 1, first.Month)
	assert.InDelta(t, -1.366, first.Variance, 1e-9)
}
