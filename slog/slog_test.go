package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/mock"
	specslog "github.com/fwojciec/specsheet/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingTextExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs pages and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TextExtractor{
			ExtractFn: func(ctx context.Context, path string) (*specsheet.Document, error) {
				return &specsheet.Document{
					Name:  "m12.pdf",
					Pages: []specsheet.Page{{Number: 1, Text: "abc"}, {Number: 2, Text: "de"}},
				}, nil
			},
		}

		doc, err := specslog.NewLoggingTextExtractor(inner, newLogger(&buf)).Extract(context.Background(), "/in/m12.pdf")

		require.NoError(t, err)
		assert.Len(t, doc.Pages, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "path=/in/m12.pdf")
		assert.Contains(t, output, "pages=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TextExtractor{
			ExtractFn: func(ctx context.Context, path string) (*specsheet.Document, error) {
				return nil, errors.New("malformed xref")
			},
		}

		_, err := specslog.NewLoggingTextExtractor(inner, newLogger(&buf)).Extract(context.Background(), "/in/bad.pdf")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"malformed xref\"")
		assert.Contains(t, buf.String(), "pages=0")
	})
}

func TestLoggingClassifier_Classify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Classifier{
		ClassifyFn: func(text, filename string) specsheet.Classification {
			return specsheet.Classification{
				Kind:          specsheet.KindM12Catalog,
				Scores:        map[specsheet.DocumentKind]int{specsheet.KindM12Catalog: 7},
				OrderingCodes: 3,
			}
		},
	}

	result := specslog.NewLoggingClassifier(inner, newLogger(&buf)).Classify("text", "m12.pdf")

	assert.Equal(t, specsheet.KindM12Catalog, result.Kind)
	output := buf.String()
	assert.Contains(t, output, "file=m12.pdf")
	assert.Contains(t, output, "kind=M12_CATALOG")
	assert.Contains(t, output, "m12=7")
	assert.Contains(t, output, "codes=3")
}

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs counts and each warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Parser{
			KindFn: func() specsheet.DocumentKind { return specsheet.KindM12Catalog },
			ParseFn: func(doc *specsheet.Document) (*specsheet.ParseResult, error) {
				return &specsheet.ParseResult{
					Products: []*specsheet.Product{{Name: "a"}, {Name: "b", Degraded: true}},
					Warnings: []string{"row \"ip\" has 2 cells for 3 columns"},
				}, nil
			},
		}

		p := specslog.NewLoggingParser(inner, newLogger(&buf))
		result, err := p.Parse(&specsheet.Document{Name: "m12.pdf"})

		require.NoError(t, err)
		assert.Len(t, result.Products, 2)
		assert.Equal(t, specsheet.KindM12Catalog, p.Kind())
		output := buf.String()
		assert.Contains(t, output, "products=2")
		assert.Contains(t, output, "degraded=1")
		assert.Contains(t, output, "warnings=1")
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "has 2 cells for 3 columns")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Parser{
			KindFn: func() specsheet.DocumentKind { return specsheet.KindTechInfo },
			ParseFn: func(doc *specsheet.Document) (*specsheet.ParseResult, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := specslog.NewLoggingParser(inner, newLogger(&buf)).Parse(&specsheet.Document{Name: "ti.pdf"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=boom")
	})
}

func TestLoggingRegistry(t *testing.T) {
	t.Parallel()

	t.Run("wraps returned parser with logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		parser := &mock.Parser{
			KindFn: func() specsheet.DocumentKind { return specsheet.KindTechInfo },
			ParseFn: func(doc *specsheet.Document) (*specsheet.ParseResult, error) {
				return &specsheet.ParseResult{Products: []*specsheet.Product{{Name: "ti"}}}, nil
			},
		}
		inner := &mock.ParserRegistry{
			GetFn: func(kind specsheet.DocumentKind) specsheet.Parser { return parser },
		}

		got := specslog.NewLoggingRegistry(inner, newLogger(&buf)).Get(specsheet.KindTechInfo)
		require.NotNil(t, got)
		_, err := got.Parse(&specsheet.Document{Name: "ti.pdf"})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "kind=TI_PAGE")
		assert.Contains(t, buf.String(), "products=1")
	})

	t.Run("returns nil for unregistered kind", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ParserRegistry{
			GetFn: func(kind specsheet.DocumentKind) specsheet.Parser { return nil },
		}

		got := specslog.NewLoggingRegistry(inner, newLogger(&buf)).Get(specsheet.KindUnknown)

		assert.Nil(t, got)
		assert.Contains(t, buf.String(), "no parser registered")
	})

	t.Run("delegates register and list", func(t *testing.T) {
		t.Parallel()

		var registered specsheet.Parser
		inner := &mock.ParserRegistry{
			RegisterFn: func(parser specsheet.Parser) { registered = parser },
			ListFn:     func() []specsheet.DocumentKind { return []specsheet.DocumentKind{specsheet.KindTechInfo} },
		}
		registry := specslog.NewLoggingRegistry(inner, slog.New(slog.DiscardHandler))
		parser := &mock.Parser{}

		registry.Register(parser)

		assert.Same(t, parser, registered)
		assert.Equal(t, []specsheet.DocumentKind{specsheet.KindTechInfo}, registry.List())
	})
}

func TestLoggingProductService(t *testing.T) {
	t.Parallel()

	t.Run("logs created product", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ProductService{
			CreateProductFn: func(ctx context.Context, product *specsheet.Product) error {
				product.ID = "p1"
				return nil
			},
		}

		err := specslog.NewLoggingProductService(inner, newLogger(&buf)).CreateProduct(context.Background(),
			&specsheet.Product{OrderingCode: "99 0430 14 04", Specs: []*specsheet.Spec{{Key: "a", Raw: "a"}}})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "id=p1")
		assert.Contains(t, buf.String(), "specs=1")
	})

	t.Run("logs query errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ProductService{
			FindSpecsFn: func(ctx context.Context, filter specsheet.SpecFilter) ([]*specsheet.SpecMatch, error) {
				return nil, specsheet.Errorf(specsheet.EINVALID, "unsupported operator: ~")
			},
		}

		_, err := specslog.NewLoggingProductService(inner, newLogger(&buf)).FindSpecs(context.Background(), specsheet.SpecFilter{Op: "~"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "find specs")
		assert.Contains(t, buf.String(), "unsupported operator")
	})

	t.Run("delegates remaining operations", func(t *testing.T) {
		t.Parallel()

		var deleted string
		var replaced int
		inner := &mock.ProductService{
			FindProductByIDFn: func(ctx context.Context, id string) (*specsheet.Product, error) {
				return &specsheet.Product{ID: id}, nil
			},
			FindProductsFn: func(ctx context.Context, filter specsheet.ProductFilter) ([]*specsheet.Product, error) {
				return []*specsheet.Product{{ID: "a"}, {ID: "b"}}, nil
			},
			SpecCoverageFn: func(ctx context.Context) ([]*specsheet.KeyCoverage, error) {
				return []*specsheet.KeyCoverage{{Key: "coding", TotalRows: 2}}, nil
			},
			DeleteProductsBySourceFn: func(ctx context.Context, sourcePDF string) error {
				deleted = sourcePDF
				return nil
			},
			ReplaceProductsBySourceFn: func(ctx context.Context, sourcePDF string, products []*specsheet.Product) error {
				replaced = len(products)
				return nil
			},
		}
		svc := specslog.NewLoggingProductService(inner, slog.New(slog.DiscardHandler))
		ctx := context.Background()

		p, err := svc.FindProductByID(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "x", p.ID)

		products, err := svc.FindProducts(ctx, specsheet.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 2)

		coverage, err := svc.SpecCoverage(ctx)
		require.NoError(t, err)
		assert.Len(t, coverage, 1)

		require.NoError(t, svc.DeleteProductsBySource(ctx, "m12.pdf"))
		assert.Equal(t, "m12.pdf", deleted)

		require.NoError(t, svc.ReplaceProductsBySource(ctx, "m12.pdf", []*specsheet.Product{{}, {}}))
		assert.Equal(t, 2, replaced)
	})
}

func TestLoggingExporter_Export(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Exporter{
		ExportFn: func(ctx context.Context, products []*specsheet.Product) (int, error) {
			return len(products), nil
		},
	}

	n, err := specslog.NewLoggingExporter(inner, "out.jsonl", newLogger(&buf)).Export(context.Background(),
		[]*specsheet.Product{{Name: "a"}, {Name: "b"}})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "sink=out.jsonl")
	assert.Contains(t, buf.String(), "count=2")
}
