package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/specsheet"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite requires a LIMIT before OFFSET; -1 means no limit.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// productRow holds the raw column values of a products row.
type productRow struct {
	p          specsheet.Product
	kind       string
	pages      string
	provenance string
	degraded   int
	createdAt  string
}

func (r *productRow) dest() []any {
	return []any{&r.p.ID, &r.p.Brand, &r.p.Family, &r.p.ModelNo, &r.p.ArticleNumber, &r.p.OrderingCode,
		&r.p.Name, &r.p.Description, &r.kind, &r.p.SourcePDF, &r.p.SourceHash,
		&r.pages, &r.provenance, &r.degraded, &r.createdAt}
}

func (r *productRow) product() (*specsheet.Product, error) {
	p := r.p
	p.Kind = specsheet.DocumentKind(r.kind)
	p.Degraded = r.degraded != 0

	if err := json.Unmarshal([]byte(r.pages), &p.Pages); err != nil {
		return nil, fmt.Errorf("failed to parse pages_covered: %w", err)
	}
	var prov provenance
	if err := json.Unmarshal([]byte(r.provenance), &prov); err != nil {
		return nil, fmt.Errorf("failed to parse provenance: %w", err)
	}
	p.Strategy = prov.Strategy
	p.Notes = prov.Notes

	var err error
	if p.CreatedAt, err = parseRFC3339(r.createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

// specRow holds the raw column values of a specs row.
type specRow struct {
	s         specsheet.Spec
	num       sql.NullFloat64
	text      sql.NullString
	appliesTo sql.NullString
}

func (r *specRow) dest() []any {
	return []any{&r.s.ID, &r.s.ProductID, &r.s.Key, &r.num, &r.text, &r.s.Unit, &r.s.Raw, &r.appliesTo}
}

func (r *specRow) spec() (*specsheet.Spec, error) {
	s := r.s
	if r.num.Valid {
		s.Num = specsheet.Float64(r.num.Float64)
	}
	if r.text.Valid {
		s.Text = specsheet.String(r.text.String)
	}
	if r.appliesTo.Valid && r.appliesTo.String != "" {
		if err := json.Unmarshal([]byte(r.appliesTo.String), &s.AppliesTo); err != nil {
			return nil, fmt.Errorf("failed to parse applies_to: %w", err)
		}
	}
	return &s, nil
}

func scanProduct(sc scanner) (*specsheet.Product, error) {
	var r productRow
	if err := sc.Scan(r.dest()...); err != nil {
		return nil, err
	}
	return r.product()
}

func scanSpec(sc scanner) (*specsheet.Spec, error) {
	var r specRow
	if err := sc.Scan(r.dest()...); err != nil {
		return nil, err
	}
	return r.spec()
}

func scanSpecMatch(sc scanner) (*specsheet.SpecMatch, error) {
	var pr productRow
	var sr specRow
	if err := sc.Scan(append(pr.dest(), sr.dest()...)...); err != nil {
		return nil, err
	}
	product, err := pr.product()
	if err != nil {
		return nil, err
	}
	spec, err := sr.spec()
	if err != nil {
		return nil, err
	}
	return &specsheet.SpecMatch{Product: product, Spec: spec}, nil
}

// encodeAppliesTo returns the JSON form of a qualifier, or nil for none.
func encodeAppliesTo(m map[string]any) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode applies_to: %w", err)
	}
	return string(b), nil
}

func nonNilPages(pages []int) []int {
	if pages == nil {
		return []int{}
	}
	return pages
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
