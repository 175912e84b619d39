package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/specsheet"
)

// Ensure LoggingExporter implements specsheet.Exporter.
var _ specsheet.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter and logs each export under a sink name.
type LoggingExporter struct {
	next   specsheet.Exporter
	sink   string
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter. The sink names the
// output in log records, e.g. the output file.
func NewLoggingExporter(next specsheet.Exporter, sink string, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, sink: sink, logger: logger}
}

// Export delegates to the wrapped exporter and logs the operation.
func (e *LoggingExporter) Export(ctx context.Context, products []*specsheet.Product) (n int, err error) {
	defer func(begin time.Time) {
		e.logger.Info("export",
			"sink", e.sink,
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Export(ctx, products)
}
