package ingest

import (
	"context"
	"errors"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.TextExtractor = (*FallbackExtractor)(nil)

// FallbackExtractor tries extractors in order. The first document with
// non-blank text wins; if every extractor yields a blank document the last
// one is returned, and if all fail their errors are joined.
type FallbackExtractor struct {
	Extractors []specsheet.TextExtractor
}

// NewFallbackExtractor creates a FallbackExtractor.
func NewFallbackExtractor(extractors ...specsheet.TextExtractor) *FallbackExtractor {
	return &FallbackExtractor{Extractors: extractors}
}

// Extract implements specsheet.TextExtractor.
func (f *FallbackExtractor) Extract(ctx context.Context, path string) (*specsheet.Document, error) {
	var (
		blank *specsheet.Document
		errs  []error
	)
	for _, e := range f.Extractors {
		doc, err := e.Extract(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if !doc.Blank() {
			return doc, nil
		}
		blank = doc
	}
	if blank != nil {
		return blank, nil
	}
	if len(errs) == 0 {
		return nil, specsheet.Errorf(specsheet.EINTERNAL, "no text extractor configured")
	}
	return nil, errors.Join(errs...)
}
