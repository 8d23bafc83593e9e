package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ErrCircuitOpen is returned without contacting the origin while the breaker
// is open after repeated failures.
var ErrCircuitOpen = errors.New("dataset circuit breaker open")

// Client fetches the temperature dataset over HTTP. It implements
// pipeline.DatasetSource.
type Client struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a dataset client. The breaker opens after maxFailures
// consecutive failed fetches and lets a probe through after a minute.
func NewClient(url string, timeout time.Duration, maxFailures int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: newBreaker(maxFailures, logger),
		metrics: metrics,
		logger:  logger,
	}
}

func newBreaker(maxFailures int, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures) //nolint:gosec // validated positive in config
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// FetchDataset performs a single GET of the dataset document. It does not retry.
func (c *Client) FetchDataset(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx)
	})
	c.metrics.DatasetFetchDuration.Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.DatasetFetches.WithLabelValues("circuit_open").Inc()
		return domain.Dataset{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	if err != nil {
		c.metrics.DatasetFetches.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}

	c.metrics.DatasetFetches.WithLabelValues("success").Inc()
	ds, ok := result.(domain.Dataset)
	if !ok {
		return domain.Dataset{}, fmt.Errorf("unexpected result type %T from circuit breaker", result)
	}
	return ds, nil
}

func (c *Client) fetch(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Dataset{}, fmt.Errorf("dataset origin error: status %d: %s", resp.StatusCode, body)
	}

	ds, err := domain.DecodeDataset(resp.Body)
	if err != nil {
		return domain.Dataset{}, err
	}

	c.logger.Debug("dataset fetched", "url", c.url, "records", len(ds.Records))
	return ds, nil
}
