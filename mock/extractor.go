package mock

import (
	"context"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of specsheet.TextExtractor.
type TextExtractor struct {
	ExtractFn func(ctx context.Context, path string) (*specsheet.Document, error)
}

func (e *TextExtractor) Extract(ctx context.Context, path string) (*specsheet.Document, error) {
	return e.ExtractFn(ctx, path)
}
