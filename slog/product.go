package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/specsheet"
)

// Ensure LoggingProductService implements specsheet.ProductService.
var _ specsheet.ProductService = (*LoggingProductService)(nil)

// LoggingProductService wraps a ProductService with debug logging. Writes
// are logged at debug level since the ingester reports per-file totals.
type LoggingProductService struct {
	next   specsheet.ProductService
	logger *slog.Logger
}

// NewLoggingProductService creates a new LoggingProductService.
func NewLoggingProductService(next specsheet.ProductService, logger *slog.Logger) *LoggingProductService {
	return &LoggingProductService{next: next, logger: logger}
}

func (s *LoggingProductService) CreateProduct(ctx context.Context, product *specsheet.Product) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create product",
			"id", product.ID,
			"code", product.OrderingCode,
			"model", product.ModelNo,
			"specs", len(product.Specs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateProduct(ctx, product)
}

func (s *LoggingProductService) FindProductByID(ctx context.Context, id string) (product *specsheet.Product, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find product",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindProductByID(ctx, id)
}

func (s *LoggingProductService) FindProducts(ctx context.Context, filter specsheet.ProductFilter) (products []*specsheet.Product, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find products",
			"count", len(products),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindProducts(ctx, filter)
}

func (s *LoggingProductService) FindSpecs(ctx context.Context, filter specsheet.SpecFilter) (matches []*specsheet.SpecMatch, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find specs",
			"op", filter.Op,
			"count", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSpecs(ctx, filter)
}

func (s *LoggingProductService) SpecCoverage(ctx context.Context) (coverage []*specsheet.KeyCoverage, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("spec coverage",
			"keys", len(coverage),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SpecCoverage(ctx)
}

func (s *LoggingProductService) DeleteProductsBySource(ctx context.Context, sourcePDF string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete products",
			"source", sourcePDF,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteProductsBySource(ctx, sourcePDF)
}

func (s *LoggingProductService) ReplaceProductsBySource(ctx context.Context, sourcePDF string, products []*specsheet.Product) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("replace products",
			"source", sourcePDF,
			"products", len(products),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceProductsBySource(ctx, sourcePDF, products)
}
