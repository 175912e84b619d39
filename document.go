package specsheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DocumentKind identifies which of the known PDF templates a document matches.
type DocumentKind string

// Supported document kinds.
const (
	KindUnknown    DocumentKind = "UNKNOWN"
	KindM12Catalog DocumentKind = "M12_CATALOG"
	KindCBS260     DocumentKind = "CBS260_SHEET"
	KindTechInfo   DocumentKind = "TI_PAGE"
)

// DocumentKinds lists every kind the classifier may return.
var DocumentKinds = []DocumentKind{KindM12Catalog, KindCBS260, KindTechInfo, KindUnknown}

// Valid reports whether k is one of the defined kinds.
func (k DocumentKind) Valid() bool {
	for _, kind := range DocumentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseDocumentKind returns the kind named by s.
// Returns EINVALID if s is not a defined kind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return KindUnknown, Errorf(EINVALID, "unknown document kind %q", s)
	}
	return k, nil
}

// Page holds the text of a single PDF page, one line per text row.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Lines returns the page text split into lines.
func (p Page) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// Document represents the extracted text of a PDF file.
type Document struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	Pages []Page `json:"pages"`
}

// Text returns the text of all pages joined by newlines.
func (d *Document) Text() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// Blank reports whether the document carries no extractable text.
func (d *Document) Blank() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// PageNumbers returns the numbers of all pages in the document.
func (d *Document) PageNumbers() []int {
	nums := make([]int, len(d.Pages))
	for i, p := range d.Pages {
		nums[i] = p.Number
	}
	return nums
}

// TextExtractor pulls raw text per page from a PDF file.
type TextExtractor interface {
	// Extract reads the PDF at path and returns its pages.
	// Pages that cannot be decoded are returned with empty text.
	Extract(ctx context.Context, path string) (*Document, error)
}

// Classification is the outcome of classifying a document.
type Classification struct {
	Kind DocumentKind `json:"kind"`

	// Scores holds the marker score per candidate kind.
	Scores map[DocumentKind]int `json:"scores"`

	// OrderingCodes is the number of ordering-code matches in the text.
	OrderingCodes int `json:"orderingCodes"`
}

// Classifier decides which known template a document matches.
type Classifier interface {
	// Classify inspects extracted text and the file name.
	// The returned kind is always one of DocumentKinds.
	Classify(text, filename string) Classification
}

// ParseResult holds the records produced from one document.
type ParseResult struct {
	Products []*Product `json:"products"`

	// Warnings describes recoverable problems such as matrix layout drift.
	Warnings []string `json:"warnings,omitempty"`
}

// Parser turns the text of one document kind into product records.
type Parser interface {
	// Kind returns the document kind handled by the parser.
	Kind() DocumentKind

	// Parse produces products with nested specs. Missing optional fields are
	// omitted rather than reported as errors.
	Parse(doc *Document) (*ParseResult, error)
}

// ParserRegistry dispatches documents to the parser for their kind.
type ParserRegistry interface {
	// Get returns the parser for a kind, or nil if none is registered.
	Get(kind DocumentKind) Parser

	// Register adds a parser for its kind, replacing any previous one.
	Register(parser Parser)

	// List returns the registered kinds.
	List() []DocumentKind
}

// ContentHash returns the xxHash64 of data as a hex string.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// TextStore persists the extracted text of documents with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type TextStore interface {
	Save(ctx context.Context, doc *Document) error
	Commit() error
	Abort() error
}
