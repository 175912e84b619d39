// Package slog provides logging decorators for specsheet services using log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/specsheet"
)

// Ensure LoggingTextExtractor implements specsheet.TextExtractor.
var _ specsheet.TextExtractor = (*LoggingTextExtractor)(nil)

// LoggingTextExtractor wraps a TextExtractor with debug logging.
type LoggingTextExtractor struct {
	next   specsheet.TextExtractor
	logger *slog.Logger
}

// NewLoggingTextExtractor creates a new LoggingTextExtractor.
func NewLoggingTextExtractor(next specsheet.TextExtractor, logger *slog.Logger) *LoggingTextExtractor {
	return &LoggingTextExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs page and character counts.
func (e *LoggingTextExtractor) Extract(ctx context.Context, path string) (doc *specsheet.Document, err error) {
	defer func(begin time.Time) {
		var pages, chars int
		if doc != nil {
			pages = len(doc.Pages)
			chars = len(doc.Text())
		}
		e.logger.Debug("extract",
			"path", path,
			"pages", pages,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, path)
}
