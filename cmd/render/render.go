package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// cliMetrics registers the client metrics once per process.
var cliMetrics = sync.OnceValue(observability.NewMetrics)

// options holds the parsed command-line flags.
type options struct {
	url     string
	input   string
	outDir  string
	format  string
	width   int
	height  int
	timeout time.Duration
	verbose bool
}

// output is one file written by the command.
type output struct {
	name  string
	write func(io.Writer, *chart.Chart) error
}

var (
	pageOutput    = output{name: "index.html", write: chart.WritePage}
	heatmapOutput = output{name: "heatmap.svg", write: chart.WriteHeatmapSVG}
	legendOutput  = output{name: "legend.svg", write: chart.WriteLegendSVG}
)

// outputs maps each format to the files it produces.
var outputs = map[string][]output{
	"page":    {pageOutput},
	"heatmap": {heatmapOutput},
	"legend":  {legendOutput},
	"all":     {pageOutput, heatmapOutput, legendOutput},
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the monthly global temperature heatmap to files",
		Long: `Loads the monthly land-surface temperature dataset, renders the heatmap,
its axes and legend, and writes the results to the output directory.

Formats:
  - page:    index.html with both SVGs and the hover tooltip
  - heatmap: heatmap.svg
  - legend:  legend.svg
  - all:     every file above`,
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return run(cmd.Context(), opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", config.DefaultDatasetURL, "dataset URL")
	f.StringVarP(&opts.input, "input", "i", "", "read the dataset from a local JSON file instead of --url")
	f.StringVarP(&opts.outDir, "out-dir", "o", ".", "directory to write files into")
	f.StringVarP(&opts.format, "format", "f", "all", "output format: page, heatmap, legend or all")
	f.IntVar(&opts.width, "width", 0, "heatmap width (200-4000, default 1000)")
	f.IntVar(&opts.height, "height", 0, "heatmap height (200-4000, default 500)")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "dataset request timeout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, opts *options, logger *slog.Logger) error {
	files, ok := outputs[opts.format]
	if !ok {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	layout, err := layoutFor(opts.width, opts.height)
	if err != nil {
		return err
	}

	ds, err := loadDataset(ctx, opts, logger)
	if err != nil {
		return err
	}
	if n := ds.MalformedCount(); n > 0 {
		logger.Warn("dataset contains malformed records", "count", n)
	}

	c := chart.Render(ds, layout)
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, out := range files {
		path := filepath.Join(opts.outDir, out.name)
		if err := writeFile(path, out.write, &c); err != nil {
			return err
		}
		logger.Info("wrote file", "path", path)
	}
	return nil
}

func layoutFor(width, height int) (chart.Layout, error) {
	layout := chart.DefaultLayout()
	for name, v := range map[string]int{"width": width, "height": height} {
		if v != 0 && (v < 200 || v > 4000) {
			return chart.Layout{}, fmt.Errorf("invalid %s %d: must be between 200 and 4000", name, v)
		}
	}
	w, h := layout.Heatmap.Width, layout.Heatmap.Height
	if width != 0 {
		w = float64(width)
	}
	if height != 0 {
		h = float64(height)
	}
	return layout.WithHeatmapSize(w, h), nil
}

func loadDataset(ctx context.Context, opts *options, logger *slog.Logger) (domain.Dataset, error) {
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return domain.DecodeDataset(f)
	}

	client := dataset.NewClient(opts.url, opts.timeout, 1, cliMetrics(), logger)
	return client.FetchDataset(ctx)
}

func writeFile(path string, write func(io.Writer, *chart.Chart) error, c *chart.Chart) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f, c)
}
