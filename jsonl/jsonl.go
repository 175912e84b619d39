// Package jsonl writes products as JSON Lines, one product with its nested
// specs per line. Every record is checked against an embedded JSON Schema
// before it is written.
package jsonl

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/specsheet"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var _ specsheet.Exporter = (*Exporter)(nil)

//go:embed product.schema.json
var productSchema string

var schema = jsonschema.MustCompileString("product.schema.json", productSchema)

// Exporter implements specsheet.Exporter. It writes either to a file, which
// is replaced atomically, or to a caller-supplied writer.
type Exporter struct {
	path string
	w    io.Writer
}

// NewExporter creates an Exporter that writes to the file at path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// NewWriterExporter creates an Exporter that writes to w.
func NewWriterExporter(w io.Writer) *Exporter {
	return &Exporter{w: w}
}

// Export writes one line per product. Nothing is written to a file target
// unless every record validates.
func (e *Exporter) Export(ctx context.Context, products []*specsheet.Product) (int, error) {
	var buf bytes.Buffer
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		line, err := Encode(p)
		if err != nil {
			return 0, err
		}
		buf.Write(line)
	}

	if e.w != nil {
		if _, err := e.w.Write(buf.Bytes()); err != nil {
			return 0, fmt.Errorf("write jsonl: %w", err)
		}
		return len(products), nil
	}
	if err := writeFile(e.path, buf.Bytes()); err != nil {
		return 0, err
	}
	return len(products), nil
}

// Encode returns the validated JSON line for p, including the trailing newline.
func Encode(p *specsheet.Product) ([]byte, error) {
	rec := *p
	if rec.Pages == nil {
		rec.Pages = []int{}
	}
	if rec.Specs == nil {
		rec.Specs = []*specsheet.Spec{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&rec); err != nil {
		return nil, specsheet.Errorf(specsheet.EINTERNAL, "encode product %q: %v", p.Name, err)
	}

	if err := Validate(buf.Bytes()); err != nil {
		return nil, specsheet.Errorf(specsheet.EINTERNAL, "product %q from %s: %v", p.Name, p.SourcePDF, err)
	}
	return buf.Bytes(), nil
}

// Validate checks a single JSON record against the product schema.
func Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return specsheet.Errorf(specsheet.EINVALID, "jsonl output path required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".specsheet-*.jsonl")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write jsonl: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close jsonl: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename jsonl: %w", err)
	}
	return nil
}
