package mock

import (
	"context"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of specsheet.ProductService.
type ProductService struct {
	CreateProductFn          func(ctx context.Context, product *specsheet.Product) error
	FindProductByIDFn        func(ctx context.Context, id string) (*specsheet.Product, error)
	FindProductsFn           func(ctx context.Context, filter specsheet.ProductFilter) ([]*specsheet.Product, error)
	FindSpecsFn              func(ctx context.Context, filter specsheet.SpecFilter) ([]*specsheet.SpecMatch, error)
	SpecCoverageFn           func(ctx context.Context) ([]*specsheet.KeyCoverage, error)
	DeleteProductsBySourceFn func(ctx context.Context, sourcePDF string) error

	ReplaceProductsBySourceFn func(ctx context.Context, sourcePDF string, products []*specsheet.Product) error
}

func (s *ProductService) CreateProduct(ctx context.Context, product *specsheet.Product) error {
	return s.CreateProductFn(ctx, product)
}

func (s *ProductService) FindProductByID(ctx context.Context, id string) (*specsheet.Product, error) {
	return s.FindProductByIDFn(ctx, id)
}

func (s *ProductService) FindProducts(ctx context.Context, filter specsheet.ProductFilter) ([]*specsheet.Product, error) {
	return s.FindProductsFn(ctx, filter)
}

func (s *ProductService) FindSpecs(ctx context.Context, filter specsheet.SpecFilter) ([]*specsheet.SpecMatch, error) {
	return s.FindSpecsFn(ctx, filter)
}

func (s *ProductService) SpecCoverage(ctx context.Context) ([]*specsheet.KeyCoverage, error) {
	return s.SpecCoverageFn(ctx)
}

func (s *ProductService) DeleteProductsBySource(ctx context.Context, sourcePDF string) error {
	return s.DeleteProductsBySourceFn(ctx, sourcePDF)
}

func (s *ProductService) ReplaceProductsBySource(ctx context.Context, sourcePDF string, products []*specsheet.Product) error {
	return s.ReplaceProductsBySourceFn(ctx, sourcePDF, products)
}
