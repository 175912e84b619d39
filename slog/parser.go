package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/specsheet"
)

// Ensure LoggingParser implements specsheet.Parser.
var _ specsheet.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging of product, degraded and warning counts.
type LoggingParser struct {
	next   specsheet.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next specsheet.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Kind delegates to the wrapped parser.
func (p *LoggingParser) Kind() specsheet.DocumentKind {
	return p.next.Kind()
}

// Parse delegates to the wrapped parser. Each warning is logged separately.
func (p *LoggingParser) Parse(doc *specsheet.Document) (result *specsheet.ParseResult, err error) {
	defer func(begin time.Time) {
		var products, degraded, warnings int
		if result != nil {
			products = len(result.Products)
			warnings = len(result.Warnings)
			for _, prod := range result.Products {
				if prod.Degraded {
					degraded++
				}
			}
			for _, w := range result.Warnings {
				p.logger.Debug("parse warning", "file", doc.Name, "kind", string(p.next.Kind()), "warning", w)
			}
		}
		p.logger.Info("parse",
			"file", doc.Name,
			"kind", string(p.next.Kind()),
			"products", products,
			"degraded", degraded,
			"warnings", warnings,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(doc)
}
