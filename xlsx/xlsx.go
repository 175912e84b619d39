// Package xlsx writes products to an Excel workbook using github.com/xuri/excelize/v2.
//
// The workbook has a Products sheet with one row per product and a Specs
// sheet with one row per spec, keyed by the product's ordering code or
// model number so it can be filtered without joining.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/specsheet"
	"github.com/xuri/excelize/v2"
)

var _ specsheet.Exporter = (*Exporter)(nil)

// Sheet names.
const (
	ProductsSheet = "Products"
	SpecsSheet    = "Specs"
)

var productHeaders = []string{
	"ID", "Brand", "Family", "Model No", "Article Number", "Ordering Code",
	"Product Name", "Kind", "Source PDF", "Pages", "Strategy", "Degraded", "Notes",
}

var specHeaders = []string{
	"Product ID", "Code", "Spec Key", "Numeric Value", "Text Value", "Unit", "Raw", "Applies To",
}

// Exporter implements specsheet.Exporter.
type Exporter struct {
	path string
}

// NewExporter creates an Exporter that writes the workbook to path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Export writes the workbook and returns the number of products written.
func (e *Exporter) Export(ctx context.Context, products []*specsheet.Product) (int, error) {
	if e.path == "" {
		return 0, specsheet.Errorf(specsheet.EINVALID, "xlsx output path required")
	}

	f, err := Build(ctx, products)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return 0, fmt.Errorf("xlsx write: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(e.path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write xlsx: %w", err)
	}
	return len(products), nil
}

// Build assembles the workbook in memory.
func Build(ctx context.Context, products []*specsheet.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it so the workbook has no empty sheet.
	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SpecsSheet); err != nil {
		f.Close()
		return nil, err
	}
	index, _ := f.GetSheetIndex(ProductsSheet)
	f.SetActiveSheet(index)

	writeHeader(f, ProductsSheet, productHeaders)
	writeHeader(f, SpecsSheet, specHeaders)

	productRow, specRow := 2, 2
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		writeRow(f, ProductsSheet, productRow, []any{
			p.ID, p.Brand, p.Family, p.ModelNo, p.ArticleNumber, p.OrderingCode,
			p.Name, string(p.Kind), p.SourcePDF, joinPages(p.Pages), p.Strategy,
			p.Degraded, strings.Join(p.Notes, "; "),
		})
		productRow++

		code := p.OrderingCode
		if code == "" {
			code = p.ModelNo
		}
		for _, s := range p.Specs {
			var num, text any
			if s.Num != nil {
				num = *s.Num
			}
			if s.Text != nil {
				text = *s.Text
			}
			writeRow(f, SpecsSheet, specRow, []any{
				p.ID, code, s.Key, num, text, s.Unit, s.Raw, formatAppliesTo(s.AppliesTo),
			})
			specRow++
		}
	}

	_ = f.SetColWidth(ProductsSheet, "A", "A", 38)
	_ = f.SetColWidth(ProductsSheet, "B", "F", 18)
	_ = f.SetColWidth(ProductsSheet, "G", "G", 40)
	_ = f.SetColWidth(ProductsSheet, "H", "L", 16)
	_ = f.SetColWidth(ProductsSheet, "M", "M", 60)
	_ = f.SetColWidth(SpecsSheet, "A", "A", 38)
	_ = f.SetColWidth(SpecsSheet, "B", "C", 24)
	_ = f.SetColWidth(SpecsSheet, "D", "F", 14)
	_ = f.SetColWidth(SpecsSheet, "G", "G", 40)
	_ = f.SetColWidth(SpecsSheet, "H", "H", 20)

	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// formatAppliesTo renders a qualifier as "contacts=4".
func formatAppliesTo(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(parts, ", ")
}
