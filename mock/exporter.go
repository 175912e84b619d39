package mock

import (
	"context"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of specsheet.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, products []*specsheet.Product) (int, error)
}

func (e *Exporter) Export(ctx context.Context, products []*specsheet.Product) (int, error) {
	return e.ExportFn(ctx, products)
}
