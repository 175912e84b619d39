package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/specsheet"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ specsheet.ProductService = (*ProductService)(nil)

// ProductService implements specsheet.ProductService using SQLite.
type ProductService struct {
	db *DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *DB) *ProductService {
	return &ProductService{db: db}
}

const productColumns = `p.id, p.brand, p.family, p.model_no, p.article_number, p.ordering_code,
	p.product_name, p.description, p.kind, p.source_pdf, p.source_hash,
	p.pages_covered, p.provenance, p.degraded, p.created_at`

const specColumns = `s.id, s.product_id, s.spec_key, s.spec_value_num, s.spec_value_text,
	s.unit, s.raw, s.applies_to`

// provenance records how a product was derived.
type provenance struct {
	Strategy string   `json:"strategy"`
	Notes    []string `json:"notes,omitempty"`
}

// CreateProduct stores a product and its specs in a single transaction.
// The product ID, creation time and spec IDs are assigned on success.
func (s *ProductService) CreateProduct(ctx context.Context, product *specsheet.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ins, err := insertProduct(ctx, tx, product)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ins.apply(product)
	return nil
}

// ReplaceProductsBySource swaps every product stored for sourcePDF with
// products in one transaction. Nothing changes unless all products are
// valid and stored.
func (s *ProductService) ReplaceProductsBySource(ctx context.Context, sourcePDF string, products []*specsheet.Product) error {
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.SourcePDF != sourcePDF {
			return specsheet.Errorf(specsheet.EINVALID, "product %q belongs to %q, not %q", p.Name, p.SourcePDF, sourcePDF)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteBySource(ctx, tx, sourcePDF); err != nil {
		return err
	}
	inserted := make([]*insertion, len(products))
	for i, p := range products {
		if inserted[i], err = insertProduct(ctx, tx, p); err != nil {
			return fmt.Errorf("store product %q: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	for i, p := range products {
		inserted[i].apply(p)
	}
	return nil
}

// insertion holds the identity assigned to a product inside a transaction.
// It is copied onto the product only after commit.
type insertion struct {
	id        string
	createdAt time.Time
	specIDs   []int64
}

func (ins *insertion) apply(product *specsheet.Product) {
	product.ID = ins.id
	product.CreatedAt = ins.createdAt
	for i, spec := range product.Specs {
		spec.ID = ins.specIDs[i]
		spec.ProductID = ins.id
	}
}

func insertProduct(ctx context.Context, tx *sql.Tx, product *specsheet.Product) (*insertion, error) {
	pages, err := json.Marshal(nonNilPages(product.Pages))
	if err != nil {
		return nil, fmt.Errorf("failed to encode pages: %w", err)
	}
	prov, err := json.Marshal(provenance{Strategy: product.Strategy, Notes: product.Notes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode provenance: %w", err)
	}

	ins := &insertion{
		id:        uuid.New().String(),
		createdAt: time.Now().UTC().Truncate(time.Second),
		specIDs:   make([]int64, len(product.Specs)),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, brand, family, model_no, article_number, ordering_code,
			product_name, description, kind, source_pdf, source_hash, pages_covered,
			provenance, degraded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ins.id, product.Brand, product.Family, product.ModelNo, product.ArticleNumber, product.OrderingCode,
		product.Name, product.Description, string(product.Kind), product.SourcePDF, product.SourceHash,
		string(pages), string(prov), boolToInt(product.Degraded), ins.createdAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	for i, spec := range product.Specs {
		appliesTo, err := encodeAppliesTo(spec.AppliesTo)
		if err != nil {
			return nil, err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO specs (product_id, position, spec_key, spec_value_num, spec_value_text, unit, raw, applies_to)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, ins.id, i, spec.Key, nullFloat(spec.Num), nullString(spec.Text), spec.Unit, spec.Raw, appliesTo)
		if err != nil {
			return nil, err
		}
		if ins.specIDs[i], err = res.LastInsertId(); err != nil {
			return nil, err
		}
	}
	return ins, nil
}

// FindProductByID retrieves a product and its specs by ID.
func (s *ProductService) FindProductByID(ctx context.Context, id string) (*specsheet.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE p.id = ?", id)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, specsheet.Errorf(specsheet.ENOTFOUND, "product not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+specColumns+" FROM specs s WHERE s.product_id = ? ORDER BY s.position ASC, s.id ASC", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, err
		}
		product.Specs = append(product.Specs, spec)
	}
	return product, rows.Err()
}

// FindProducts retrieves products matching the filter. Specs are not loaded.
func (s *ProductService) FindProducts(ctx context.Context, filter specsheet.ProductFilter) ([]*specsheet.Product, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + productColumns + " FROM products p WHERE 1=1")

	if filter.Model != nil {
		query.WriteString(" AND (lower(p.model_no) = lower(?) OR lower(p.ordering_code) = lower(?))")
		args = append(args, *filter.Model, *filter.Model)
	}
	if filter.Brand != nil {
		query.WriteString(" AND lower(p.brand) = lower(?)")
		args = append(args, *filter.Brand)
	}
	if filter.Kind != nil {
		query.WriteString(" AND p.kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.SourcePDF != nil {
		query.WriteString(" AND p.source_pdf = ?")
		args = append(args, *filter.SourcePDF)
	}

	query.WriteString(" ORDER BY p.source_pdf ASC, p.rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*specsheet.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// FindSpecs retrieves specs joined to their products. A filter on
// OrderingCode lists the specs of that code ordered by key.
func (s *ProductService) FindSpecs(ctx context.Context, filter specsheet.SpecFilter) ([]*specsheet.SpecMatch, error) {
	if (filter.Op != "") != (filter.Value != nil) {
		return nil, specsheet.Errorf(specsheet.EINVALID, "comparison requires both operator and value")
	}
	if filter.Op != "" && !specsheet.ValidSpecOp(filter.Op) {
		return nil, specsheet.Errorf(specsheet.EINVALID, "unsupported operator: %s", filter.Op)
	}
	if filter.Contains != nil && filter.Equals != nil {
		return nil, specsheet.Errorf(specsheet.EINVALID, "contains and equals are mutually exclusive")
	}

	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + productColumns + ", " + specColumns +
		" FROM specs s JOIN products p ON p.id = s.product_id WHERE 1=1")

	if filter.ProductID != nil {
		query.WriteString(" AND s.product_id = ?")
		args = append(args, *filter.ProductID)
	}
	if filter.OrderingCode != nil {
		query.WriteString(" AND (p.ordering_code = ? OR p.model_no = ?)")
		args = append(args, *filter.OrderingCode, *filter.OrderingCode)
	}
	if filter.Key != nil {
		query.WriteString(" AND lower(s.spec_key) = lower(?)")
		args = append(args, *filter.Key)
	}
	if filter.Op != "" {
		// Op is checked against the allow-list above.
		query.WriteString(" AND s.spec_value_num " + filter.Op + " ?")
		args = append(args, *filter.Value)
	}
	if filter.Contains != nil {
		query.WriteString(` AND s.spec_value_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(*filter.Contains)+"%")
	}
	if filter.Equals != nil {
		query.WriteString(" AND lower(s.spec_value_text) = lower(?)")
		args = append(args, *filter.Equals)
	}

	if filter.OrderingCode != nil {
		query.WriteString(" ORDER BY s.spec_key ASC, s.id ASC")
	} else {
		query.WriteString(" ORDER BY p.source_pdf ASC, p.rowid ASC, s.position ASC")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*specsheet.SpecMatch
	for rows.Next() {
		match, err := scanSpecMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// SpecCoverage counts rows and numeric rows per spec key, most frequent first.
func (s *ProductService) SpecCoverage(ctx context.Context) ([]*specsheet.KeyCoverage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT spec_key,
			COUNT(*) AS total_rows,
			SUM(CASE WHEN spec_value_num IS NOT NULL THEN 1 ELSE 0 END) AS numeric_rows
		FROM specs
		GROUP BY spec_key
		ORDER BY total_rows DESC, spec_key ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coverage []*specsheet.KeyCoverage
	for rows.Next() {
		var c specsheet.KeyCoverage
		if err := rows.Scan(&c.Key, &c.TotalRows, &c.NumericRows); err != nil {
			return nil, err
		}
		coverage = append(coverage, &c)
	}
	return coverage, rows.Err()
}

// DeleteProductsBySource removes every product extracted from sourcePDF
// together with its specs.
func (s *ProductService) DeleteProductsBySource(ctx context.Context, sourcePDF string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteBySource(ctx, tx, sourcePDF); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteBySource(ctx context.Context, tx *sql.Tx, sourcePDF string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM specs WHERE product_id IN (SELECT id FROM products WHERE source_pdf = ?)", sourcePDF); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM products WHERE source_pdf = ?", sourcePDF)
	return err
}
