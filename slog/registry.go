package slog

import (
	"log/slog"

	"github.com/fwojciec/specsheet"
)

// Ensure LoggingRegistry implements specsheet.ParserRegistry.
var _ specsheet.ParserRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a ParserRegistry so that every parser it hands out
// logs its results.
type LoggingRegistry struct {
	next   specsheet.ParserRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next specsheet.ParserRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Get returns the wrapped registry's parser decorated with logging. A kind
// without a parser is logged and yields nil.
func (r *LoggingRegistry) Get(kind specsheet.DocumentKind) specsheet.Parser {
	parser := r.next.Get(kind)
	if parser == nil {
		r.logger.Debug("no parser registered", "kind", string(kind))
		return nil
	}
	return NewLoggingParser(parser, r.logger)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(parser specsheet.Parser) {
	r.next.Register(parser)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []specsheet.DocumentKind {
	return r.next.List()
}
