package pdfcpu_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements specsheet.TextExtractor at compile time.
var _ specsheet.TextExtractor = (*pdfcpu.Extractor)(nil)

func TestStreamText(t *testing.T) {
	t.Parallel()

	t.Run("breaks lines on vertical moves", func(t *testing.T) {
		t.Parallel()

		stream := "BT /F1 12 Tf 72 720 Td (Polzahl / Contacts) Tj 0 -14 Td [(Rated)-250(current)] TJ 0 -14 Td (4 A) Tj T* <FEFF00B0> Tj ET"

		got := pdfcpu.StreamText([]byte(stream))

		assert.Equal(t, "Polzahl / Contacts\nRated current\n4 A\n°", got)
	})

	t.Run("keeps words on a horizontal move", func(t *testing.T) {
		t.Parallel()

		stream := "BT (IP67) Tj 40 0 Td (IP68) Tj ET"

		got := pdfcpu.StreamText([]byte(stream))

		assert.Equal(t, "IP67 IP68", got)
	})

	t.Run("resolves escapes and octal codes", func(t *testing.T) {
		t.Parallel()

		stream := `BT (a\(b\)c \260C) Tj ET`

		got := pdfcpu.StreamText([]byte(stream))

		assert.Equal(t, "a(b)c °C", got)
	})

	t.Run("starts a new line for quote operator", func(t *testing.T) {
		t.Parallel()

		stream := "BT (first) Tj (second) ' ET"

		got := pdfcpu.StreamText([]byte(stream))

		assert.Equal(t, "first\nsecond", got)
	})

	t.Run("ignores non-text content", func(t *testing.T) {
		t.Parallel()

		stream := "q 1 0 0 1 0 0 cm /Im1 Do Q % comment (hidden)\n"

		got := pdfcpu.StreamText([]byte(stream))

		assert.Empty(t, got)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := pdfcpu.NewExtractor().Extract(context.Background(), "/nonexistent/file.pdf")

		require.Error(t, err)
	})

	t.Run("returns EINVALID for empty file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.pdf")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := pdfcpu.NewExtractor().Extract(context.Background(), path)

		assert.Equal(t, specsheet.EINVALID, specsheet.ErrorCode(err))
	})

	t.Run("reads a single page document", func(t *testing.T) {
		t.Parallel()

		raw := buildTextPDF("Technische Informationen")
		path := filepath.Join(t.TempDir(), "info.pdf")
		require.NoError(t, os.WriteFile(path, raw, 0644))

		doc, err := pdfcpu.NewExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, doc.Pages, 1)
		assert.Equal(t, "info.pdf", doc.Name)
		assert.Equal(t, specsheet.ContentHash(raw), doc.Hash)
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
		s := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(s)) + s + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")
	return []byte(b.String())
}
