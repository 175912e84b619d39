// Package pdf extracts page text from PDF files using github.com/ledongthuc/pdf.
//
// Only the embedded text layer is read. Glyph runs are grouped into rows by
// their baseline and merged into words by horizontal gap, so each output
// line corresponds to one visual row of the page, which keeps table rows
// (ordering codes, spec matrices) on a single line.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/specsheet"
	"github.com/ledongthuc/pdf"
)

var _ specsheet.TextExtractor = (*Extractor)(nil)

// Default layout tolerances, in PDF user space units.
const (
	DefaultRowTolerance = 2.0
	DefaultWordGap      = 0.25 // fraction of the font size
)

// Extractor implements specsheet.TextExtractor on the PDF text layer.
type Extractor struct {
	// RowTolerance is the maximum baseline difference of glyphs on one row.
	RowTolerance float64

	// WordGap is the horizontal gap, relative to font size, that starts a new word.
	WordGap float64
}

// NewExtractor creates an Extractor with default tolerances.
func NewExtractor() *Extractor {
	return &Extractor{
		RowTolerance: DefaultRowTolerance,
		WordGap:      DefaultWordGap,
	}
}

// Extract reads the PDF at path. Pages that fail to decode are returned
// with empty text.
func (e *Extractor) Extract(ctx context.Context, path string) (*specsheet.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, specsheet.Errorf(specsheet.EINVALID, "empty PDF %s", filepath.Base(path))
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	doc := &specsheet.Document{
		Path: path,
		Name: filepath.Base(path),
		Hash: specsheet.ContentHash(data),
	}

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, specsheet.Page{
			Number: i,
			Text:   e.pageText(r.Page(i)),
		})
	}

	return doc, nil
}

// pageText returns the rows of a page joined by newlines. The underlying
// reader panics on some malformed content streams; such pages yield "".
func (e *Extractor) pageText(p pdf.Page) (text string) {
	if p.V.IsNull() {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return strings.Join(e.Rows(p.Content().Text), "\n")
}

// Rows groups glyph runs into visual rows, top to bottom, and returns the
// text of each row with words separated by single spaces.
func (e *Extractor) Rows(texts []pdf.Text) []string {
	tolerance := e.RowTolerance
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}
	gapFactor := e.WordGap
	if gapFactor <= 0 {
		gapFactor = DefaultWordGap
	}

	type row struct {
		y     float64
		texts []pdf.Text
	}

	var rows []*row
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		var target *row
		for _, r := range rows {
			if math.Abs(r.y-t.Y) <= tolerance {
				target = r
				break
			}
		}
		if target == nil {
			target = &row{y: t.Y}
			rows = append(rows, target)
		}
		target.texts = append(target.texts, t)
	}

	// PDF space grows upwards; the top row has the largest Y.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r.texts, func(i, j int) bool { return r.texts[i].X < r.texts[j].X })

		var b strings.Builder
		var end float64
		for i, t := range r.texts {
			if i > 0 {
				threshold := gapFactor * t.FontSize
				if t.FontSize == 0 {
					threshold = 1.0
				}
				if t.X-end > threshold && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
			end = t.X + t.W
		}
		if line := strings.Join(strings.Fields(b.String()), " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}
