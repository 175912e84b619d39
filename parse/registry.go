package parse

import (
	"sort"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.ParserRegistry = (*Registry)(nil)

// Registry maps document kinds to their parsers. UNKNOWN documents have no
// parser; Get returns nil for them and the caller decides what to do.
type Registry struct {
	parsers map[specsheet.DocumentKind]specsheet.Parser
}

// NewRegistry creates a Registry holding the given parsers.
func NewRegistry(parsers ...specsheet.Parser) *Registry {
	r := &Registry{parsers: make(map[specsheet.DocumentKind]specsheet.Parser)}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// NewDefaultRegistry creates a Registry with the parsers for every known template.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewM12Parser(), NewCBS260Parser(), NewTechInfoParser())
}

// Get returns the parser for a kind.
// Returns nil if no parser is registered for the kind.
func (r *Registry) Get(kind specsheet.DocumentKind) specsheet.Parser {
	return r.parsers[kind]
}

// Register adds a parser for its kind.
// If a parser is already registered for the kind, it is replaced.
func (r *Registry) Register(parser specsheet.Parser) {
	r.parsers[parser.Kind()] = parser
}

// List returns all registered kinds in sorted order.
func (r *Registry) List() []specsheet.DocumentKind {
	kinds := make([]specsheet.DocumentKind, 0, len(r.parsers))
	for k := range r.parsers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
