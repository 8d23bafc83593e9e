package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes the cell encodings of each rendered chart to a Kafka
// topic, one message per cell. It implements pipeline.ChartPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishChart serializes every cell of the chart and writes them in a single
// WriteMessages call.
func (w *Writer) PublishChart(ctx context.Context, c *chart.Chart) error {
	if len(c.Cells) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(c.Cells))
	for i := range c.Cells {
		msg, err := serializeToMessage(c.Cells[i], c.Generation, c.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write cells: %w", err)
	}
	w.logger.Debug("cells published", "count", len(msgs), "generation", c.Generation)
	return nil
}

// Close flushes and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// cellKey identifies a cell by calendar month, e.g. "1950-01".
func cellKey(cell chart.Cell) string {
	return fmt.Sprintf("%04d-%02d", cell.Year, cell.Month+1)
}

// serializeToMessage marshals a cell into a Kafka message.
func serializeToMessage(cell chart.Cell, generation uint64, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(cell)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(cellKey(cell)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generation", Value: []byte(strconv.FormatUint(generation, 10))},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
		Time: generatedAt,
	}, nil
}
