package pdf_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/specsheet"
	specpdf "github.com/fwojciec/specsheet/pdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements specsheet.TextExtractor at compile time.
var _ specsheet.TextExtractor = (*specpdf.Extractor)(nil)

func TestExtractor_Rows(t *testing.T) {
	t.Parallel()

	t.Run("groups glyphs into rows top to bottom", func(t *testing.T) {
		t.Parallel()

		texts := []pdf.Text{
			{S: "Rated", X: 10, Y: 700, W: 20, FontSize: 10},
			{S: "current", X: 33, Y: 700.5, W: 28, FontSize: 10},
			{S: "Contacts", X: 10, Y: 720, W: 30, FontSize: 10},
			{S: "4", X: 50, Y: 719, W: 5, FontSize: 10},
		}

		rows := specpdf.NewExtractor().Rows(texts)

		assert.Equal(t, []string{"Contacts 4", "Rated current"}, rows)
	})

	t.Run("merges adjacent glyphs into words", func(t *testing.T) {
		t.Parallel()

		texts := []pdf.Text{
			{S: "9", X: 10, Y: 500, W: 5, FontSize: 10},
			{S: "9", X: 15, Y: 500, W: 5, FontSize: 10},
			{S: "0", X: 25, Y: 500, W: 5, FontSize: 10},
			{S: "4", X: 30, Y: 500, W: 5, FontSize: 10},
		}

		rows := specpdf.NewExtractor().Rows(texts)

		assert.Equal(t, []string{"99 04"}, rows)
	})

	t.Run("orders glyphs by position within a row", func(t *testing.T) {
		t.Parallel()

		texts := []pdf.Text{
			{S: "IP68", X: 80, Y: 300, W: 20, FontSize: 10},
			{S: "IP67", X: 40, Y: 300, W: 20, FontSize: 10},
		}

		rows := specpdf.NewExtractor().Rows(texts)

		assert.Equal(t, []string{"IP67 IP68"}, rows)
	})

	t.Run("skips empty glyphs", func(t *testing.T) {
		t.Parallel()

		rows := specpdf.NewExtractor().Rows([]pdf.Text{{S: "", X: 1, Y: 1}})

		assert.Empty(t, rows)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := specpdf.NewExtractor().Extract(context.Background(), "/nonexistent/file.pdf")

		require.Error(t, err)
	})

	t.Run("returns EINVALID for empty file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.pdf")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := specpdf.NewExtractor().Extract(context.Background(), path)

		assert.Equal(t, specsheet.EINVALID, specsheet.ErrorCode(err))
	})

	t.Run("returns error for non-PDF content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0644))

		_, err := specpdf.NewExtractor().Extract(context.Background(), path)

		require.Error(t, err)
	})

	t.Run("reads pages and hashes content", func(t *testing.T) {
		t.Parallel()

		raw := buildTextPDF("M12 Serie 713")
		path := filepath.Join(t.TempDir(), "catalog.pdf")
		require.NoError(t, os.WriteFile(path, raw, 0644))

		doc, err := specpdf.NewExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "catalog.pdf", doc.Name)
		assert.Equal(t, specsheet.ContentHash(raw), doc.Hash)
		require.Len(t, doc.Pages, 1)
		assert.Equal(t, 1, doc.Pages[0].Number)
	})
}

// buildTextPDF returns a minimal single-page PDF showing text in Helvetica.
func buildTextPDF(text string) []byte {
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + text + ") Tj\nET"

	var b strings.Builder
	offsets := make([]int, 6)
	b.WriteString("%PDF-1.4\n")
	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n" + stream + "\nendstream\nendobj\n")
	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		b.WriteString(padOffset(offsets[i]) + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")
	return []byte(b.String())
}

func padOffset(n int) string {
	s := strconv.Itoa(n)
	return strings.Repeat("0", 10-len(s)) + s
}
