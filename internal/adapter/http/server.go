package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ChartSource returns the chart currently being served.
type ChartSource interface {
	Current() (*chart.Chart, bool)
}

var validate = validator.New()

// sizeQuery bounds the optional heatmap dimensions.
type sizeQuery struct {
	Width  *int `validate:"omitempty,min=200,max=4000"`
	Height *int `validate:"omitempty,min=200,max=4000"`
}

// tooltipQuery addresses a cell by year and zero-based month.
type tooltipQuery struct {
	Year  *int `validate:"required"`
	Month *int `validate:"required,min=0,max=11"`
	X     float64
	Y     float64
}

// Server exposes the page, SVG documents, JSON API, health, readiness, and
// metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     ChartSource
	resized    *resizedCharts
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server. cacheSize bounds the number of resized
// heatmaps kept in memory.
func NewServer(addr string, source ChartSource, ready sharedobs.ReadinessChecker, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  source,
		resized: newResizedCharts(cacheSize, metrics),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /heatmap.svg", s.handleHeatmap)
	mux.HandleFunc("GET /legend.svg", s.handleLegend)
	mux.HandleFunc("GET /api/cells", s.handleCells)
	mux.HandleFunc("GET /api/tooltip", s.handleTooltip)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// current writes a 503 and returns false while no chart is loaded.
func (s *Server) current(w http.ResponseWriter) (*chart.Chart, bool) {
	c, ok := s.source.Current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "chart not loaded")
		return nil, false
	}
	return c, true
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.current(w)
	if !ok {
		return
	}
	s.render(w, "page", "text/html; charset=utf-8", func(buf io.Writer) error {
		return chart.WritePage(buf, c)
	})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current(w)
	if !ok {
		return
	}

	q, err := parseSizeQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Width != nil || q.Height != nil {
		width := int(c.Context.Layout.Heatmap.Width)
		height := int(c.Context.Layout.Heatmap.Height)
		if q.Width != nil {
			width = *q.Width
		}
		if q.Height != nil {
			height = *q.Height
		}
		c = s.resized.get(c, width, height)
	}

	s.render(w, "heatmap", "image/svg+xml", func(buf io.Writer) error {
		return chart.WriteHeatmapSVG(buf, c)
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.current(w)
	if !ok {
		return
	}
	s.render(w, "legend", "image/svg+xml", func(buf io.Writer) error {
		return chart.WriteLegendSVG(buf, c)
	})
}

type cellsResponse struct {
	Generation      uint64       `json:"generation"`
	GeneratedAt     time.Time    `json:"generated_at"`
	BaseTemperature float64      `json:"base_temperature"`
	MinYear         int          `json:"min_year"`
	MaxYear         int          `json:"max_year"`
	Cells           []chart.Cell `json:"cells"`
}

func (s *Server) handleCells(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.current(w)
	if !ok {
		return
	}
	s.metrics.Renders.WithLabelValues("cells").Inc()
	writeJSON(w, http.StatusOK, cellsResponse{
		Generation:      c.Generation,
		GeneratedAt:     c.GeneratedAt,
		BaseTemperature: c.Context.Dataset.BaseTemperature,
		MinYear:         c.Context.MinYear,
		MaxYear:         c.Context.MaxYear,
		Cells:           c.Cells,
	})
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current(w)
	if !ok {
		return
	}

	q, err := parseTooltipQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cell, found := c.Cell(*q.Year, *q.Month)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no cell for %d - %s", *q.Year, domain.MonthName(*q.Month+1)))
		return
	}
	writeJSON(w, http.StatusOK, c.Hover(cell, q.X, q.Y))
}

// render buffers the document so that a template failure still produces a
// clean 500.
func (s *Server) render(w http.ResponseWriter, surface, contentType string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		s.logger.Error("render failed", "surface", surface, "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	s.metrics.Renders.WithLabelValues(surface).Inc()
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func parseSizeQuery(v url.Values) (sizeQuery, error) {
	var q sizeQuery
	var err error
	if q.Width, err = optionalInt(v, "width"); err != nil {
		return q, err
	}
	if q.Height, err = optionalInt(v, "height"); err != nil {
		return q, err
	}
	if err := validate.Struct(q); err != nil {
		return q, validationError(err)
	}
	return q, nil
}

func parseTooltipQuery(v url.Values) (tooltipQuery, error) {
	var q tooltipQuery
	var err error
	if q.Year, err = optionalInt(v, "year"); err != nil {
		return q, err
	}
	if q.Month, err = optionalInt(v, "month"); err != nil {
		return q, err
	}
	if q.X, err = optionalFloat(v, "x"); err != nil {
		return q, err
	}
	if q.Y, err = optionalFloat(v, "y"); err != nil {
		return q, err
	}
	if err := validate.Struct(q); err != nil {
		return q, validationError(err)
	}
	return q, nil
}

func optionalInt(v url.Values, key string) (*int, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, s)
	}
	return &n, nil
}

func optionalFloat(v url.Values, key string) (float64, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

// validationError names the first offending field in lower case.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("invalid %s: must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid %s: %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
