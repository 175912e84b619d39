// Package ingest provides batch orchestration of the extraction pipeline.
// It walks a directory of PDFs one file at a time, extracting text,
// classifying, parsing and storing the resulting products, then hands the
// whole batch to the configured exporters.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/specsheet"
)

// StrategyPlaceholder marks the product stored for an unrecognized PDF.
const StrategyPlaceholder = "placeholder_per_pdf"

// Ingester runs the extraction pipeline over a directory of PDFs.
type Ingester struct {
	Extractor  specsheet.TextExtractor
	Classifier specsheet.Classifier
	Parsers    specsheet.ParserRegistry
	Products   specsheet.ProductService
	Exporters  []specsheet.Exporter
	Logger     *slog.Logger

	// Texts receives the extracted text of every PDF when set. Saved text
	// is committed once the batch has been exported.
	Texts specsheet.TextStore

	// KeepUnknown stores a placeholder product for unrecognized documents
	// instead of skipping them.
	KeepUnknown bool
}

// Result holds the outcome of an ingest run.
type Result struct {
	Files     int
	Processed int
	Skipped   int
	Failed    int
	Products  int
	Specs     int
	Degraded  int
	Warnings  int

	// Exported counts records written, summed over all exporters.
	Exported int

	// Kinds counts classified documents per kind, skipped ones included.
	Kinds map[specsheet.DocumentKind]int
}

// ProgressEvent reports progress during an ingest run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Kind      specsheet.DocumentKind
	Products  int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting ingest progress.
type ProgressFunc func(event ProgressEvent)

// ListPDFs returns the PDF files directly inside dir in lexical order.
// Returns EINVALID if dir is not a directory.
func ListPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, specsheet.Errorf(specsheet.EINVALID, "%q is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// IngestDir processes every PDF in dir. A failure on one file is logged and
// counted; it does not stop the batch. Exporter failures are returned.
func (i *Ingester) IngestDir(ctx context.Context, dir string, progress ProgressFunc) (*Result, error) {
	paths, err := ListPDFs(dir)
	if err != nil {
		return nil, err
	}

	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	result := &Result{
		Files: len(paths),
		Kinds: make(map[specsheet.DocumentKind]int),
	}
	notify(ProgressEvent{Type: ProgressStarted, Total: len(paths)})

	var all []*specsheet.Product
	for n, path := range paths {
		if err := ctx.Err(); err != nil {
			i.abortTexts()
			return result, err
		}

		out, err := i.IngestFile(ctx, path)
		event := ProgressEvent{Completed: n + 1, Total: len(paths), Path: path}
		switch {
		case err != nil:
			result.Failed++
			i.logger().Error("ingest failed", "path", path, "err", err)
			event.Type = ProgressFailed
			event.Error = err
		case out.Skipped:
			result.Skipped++
			result.Kinds[out.Kind]++
			event.Type = ProgressSkipped
			event.Kind = out.Kind
		default:
			result.Processed++
			result.Kinds[out.Kind]++
			result.Warnings += len(out.Warnings)
			for _, p := range out.Products {
				result.Products++
				result.Specs += len(p.Specs)
				if p.Degraded {
					result.Degraded++
				}
			}
			all = append(all, out.Products...)
			event.Type = ProgressCompleted
			event.Kind = out.Kind
			event.Products = len(out.Products)
		}
		notify(event)
	}

	for _, e := range i.Exporters {
		written, err := e.Export(ctx, all)
		if err != nil {
			i.abortTexts()
			return result, fmt.Errorf("export: %w", err)
		}
		result.Exported += written
	}
	if i.Texts != nil {
		if err := i.Texts.Commit(); err != nil {
			return result, fmt.Errorf("commit text: %w", err)
		}
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: len(paths), Total: len(paths), Products: result.Products})
	return result, nil
}

// FileResult holds the outcome of processing a single PDF.
type FileResult struct {
	Kind     specsheet.DocumentKind
	Skipped  bool
	Products []*specsheet.Product
	Warnings []string
}

// IngestFile extracts, classifies, parses and stores one PDF. Products
// previously stored for the same file name are replaced; if storing fails
// they are kept.
func (i *Ingester) IngestFile(ctx context.Context, path string) (*FileResult, error) {
	doc, err := i.Extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if i.Texts != nil {
		if err := i.Texts.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("save text: %w", err)
		}
	}

	cls := i.Classifier.Classify(doc.Text(), doc.Name)
	out := &FileResult{Kind: cls.Kind}

	var products []*specsheet.Product
	parser := i.Parsers.Get(cls.Kind)
	switch {
	case parser != nil:
		res, err := parser.Parse(doc)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", cls.Kind, err)
		}
		products = res.Products
		out.Warnings = res.Warnings
	case i.KeepUnknown:
		products = []*specsheet.Product{placeholder(doc)}
	default:
		i.logger().Warn("skipping unrecognized document", "path", path, "kind", cls.Kind, "scores", cls.Scores)
		out.Skipped = true
		return out, nil
	}

	if err := i.Products.ReplaceProductsBySource(ctx, doc.Name, products); err != nil {
		return nil, fmt.Errorf("replace products: %w", err)
	}
	out.Products = products
	return out, nil
}

func placeholder(doc *specsheet.Document) *specsheet.Product {
	return &specsheet.Product{
		Name:       strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name)),
		Kind:       specsheet.KindUnknown,
		SourcePDF:  doc.Name,
		SourceHash: doc.Hash,
		Pages:      []int{1},
		Strategy:   StrategyPlaceholder,
		Notes:      []string{"unrecognized document"},
	}
}

func (i *Ingester) abortTexts() {
	if i.Texts == nil {
		return
	}
	if err := i.Texts.Abort(); err != nil {
		i.logger().Warn("discard text failed", "err", err)
	}
}

func (i *Ingester) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return i.Logger
}
