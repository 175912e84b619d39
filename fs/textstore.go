// Package fs stores extracted PDF text as plain files for inspection.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.TextStore = (*TextStore)(nil)

// TextStore implements specsheet.TextStore with atomic update semantics.
// Documents are saved to a temporary directory, then moved on Commit.
type TextStore struct {
	dir string
}

// NewTextStore creates a TextStore that commits to dir.
// Files are saved to dir.tmp and moved to dir on Commit.
func NewTextStore(dir string) *TextStore {
	return &TextStore{dir: filepath.Clean(dir)}
}

// Dir returns the final output directory.
func (s *TextStore) Dir() string {
	return s.dir
}

func (s *TextStore) tempDir() string {
	return s.dir + ".tmp"
}

// TextPath returns the relative file name for a PDF: "a/b.pdf" → "b.txt".
func TextPath(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

// Save writes the text of doc to the temporary directory.
func (s *TextStore) Save(ctx context.Context, doc *specsheet.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.Name == "" {
		return specsheet.Errorf(specsheet.EINVALID, "document name required")
	}
	if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.tempDir(), TextPath(doc.Name))
	return os.WriteFile(path, []byte(FormatDocument(doc)), 0o644)
}

// FormatDocument renders a document with a short header and page markers.
func FormatDocument(doc *specsheet.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.Name)
	b.WriteString("\nhash: ")
	b.WriteString(doc.Hash)
	fmt.Fprintf(&b, "\npages: %d\n---\n", len(doc.Pages))
	for _, p := range doc.Pages {
		fmt.Fprintf(&b, "\n=== page %d ===\n", p.Number)
		b.WriteString(p.Text)
		if p.Text != "" && !strings.HasSuffix(p.Text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Commit replaces the output directory with the saved files. Committing
// without any saved document leaves the output directory untouched.
func (s *TextStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dir)
}

// Abort discards saved files.
func (s *TextStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
