package specsheet

import (
	"context"
	"time"
)

// Product represents one detected variant, model or coding in a source PDF.
// Products are created once and never updated.
type Product struct {
	ID            string       `json:"id"`
	Brand         string       `json:"brand,omitempty"`
	Family        string       `json:"family,omitempty"`
	ModelNo       string       `json:"model_no,omitempty"`
	ArticleNumber string       `json:"article_number,omitempty"`
	OrderingCode  string       `json:"ordering_code,omitempty"`
	Name          string       `json:"product_name"`
	Description   string       `json:"description,omitempty"`
	Kind          DocumentKind `json:"kind"`
	SourcePDF     string       `json:"source_pdf"`
	SourceHash    string       `json:"source_hash,omitempty"`
	Pages         []int        `json:"pages_covered"`
	Strategy      string       `json:"strategy"`
	Notes         []string     `json:"notes,omitempty"`

	// Degraded marks a variant whose specs could not be fully reconstructed,
	// e.g. an ordering code without a matching spec matrix column.
	Degraded bool `json:"degraded"`

	Specs []*Spec `json:"specs"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate returns an error if the product or any of its specs contains invalid fields.
func (p *Product) Validate() error {
	if p.SourcePDF == "" {
		return Errorf(EINVALID, "product source PDF required")
	}
	if !p.Kind.Valid() {
		return Errorf(EINVALID, "product kind %q invalid", p.Kind)
	}
	for _, s := range p.Specs {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SpecKeys returns the keys of the product's specs in order.
func (p *Product) SpecKeys() []string {
	keys := make([]string, len(p.Specs))
	for i, s := range p.Specs {
		keys[i] = s.Key
	}
	return keys
}

// Spec represents one specification value of a product.
type Spec struct {
	ID        int64          `json:"-"`
	ProductID string         `json:"-"`
	Key       string         `json:"spec_key"`
	Num       *float64       `json:"spec_value_num,omitempty"`
	Text      *string        `json:"spec_value_text,omitempty"`
	Unit      string         `json:"unit,omitempty"`
	Raw       string         `json:"raw"`
	AppliesTo map[string]any `json:"applies_to,omitempty"`
}

// Validate returns an error if the spec contains invalid fields.
func (s *Spec) Validate() error {
	if s.Key == "" {
		return Errorf(EINVALID, "spec key required")
	}
	if s.Raw == "" {
		return Errorf(EINVALID, "spec %q raw source required", s.Key)
	}
	return nil
}

// Clone returns a copy of the spec without its storage identity.
func (s *Spec) Clone() *Spec {
	c := &Spec{Key: s.Key, Unit: s.Unit, Raw: s.Raw}
	if s.Num != nil {
		c.Num = Float64(*s.Num)
	}
	if s.Text != nil {
		c.Text = String(*s.Text)
	}
	if s.AppliesTo != nil {
		c.AppliesTo = make(map[string]any, len(s.AppliesTo))
		for k, v := range s.AppliesTo {
			c.AppliesTo[k] = v
		}
	}
	return c
}

// ProductService represents a service for storing and querying products.
type ProductService interface {
	// CreateProduct stores a product together with its specs.
	CreateProduct(ctx context.Context, product *Product) error

	// FindProductByID retrieves a product and its specs by ID.
	// Returns ENOTFOUND if the product does not exist.
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// FindProducts retrieves products matching the filter, without specs.
	FindProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)

	// FindSpecs retrieves specs joined to their products.
	// Returns EINVALID for unsupported comparison operators.
	FindSpecs(ctx context.Context, filter SpecFilter) ([]*SpecMatch, error)

	// SpecCoverage counts rows per spec key.
	SpecCoverage(ctx context.Context) ([]*KeyCoverage, error)

	// DeleteProductsBySource removes all products extracted from a PDF.
	DeleteProductsBySource(ctx context.Context, sourcePDF string) error

	// ReplaceProductsBySource atomically replaces the products of a PDF.
	// Returns EINVALID, leaving stored products untouched, if any product is
	// invalid or belongs to another source.
	ReplaceProductsBySource(ctx context.Context, sourcePDF string, products []*Product) error
}

// ProductFilter represents a filter for FindProducts.
type ProductFilter struct {
	// Model matches model number or ordering code, case-insensitively.
	Model     *string       `json:"model"`
	Brand     *string       `json:"brand"`
	Kind      *DocumentKind `json:"kind"`
	SourcePDF *string       `json:"sourcePdf"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Comparison operators accepted by SpecFilter.Op.
var SpecOps = []string{"=", "!=", "<", "<=", ">", ">="}

// ValidSpecOp reports whether op is a supported comparison operator.
func ValidSpecOp(op string) bool {
	for _, o := range SpecOps {
		if o == op {
			return true
		}
	}
	return false
}

// SpecFilter represents a filter for FindSpecs.
type SpecFilter struct {
	ProductID    *string `json:"productId"`
	OrderingCode *string `json:"orderingCode"`
	Key          *string `json:"key"`

	// Op and Value compare the numeric value. Both must be set together.
	Op    string   `json:"op"`
	Value *float64 `json:"value"`

	// Contains and Equals match the text value case-insensitively.
	Contains *string `json:"contains"`
	Equals   *string `json:"equals"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SpecMatch pairs a spec with the product it belongs to.
type SpecMatch struct {
	Product *Product `json:"product"`
	Spec    *Spec    `json:"spec"`
}

// KeyCoverage reports how often a spec key occurs and how often it is numeric.
type KeyCoverage struct {
	Key         string `json:"key"`
	TotalRows   int    `json:"totalRows"`
	NumericRows int    `json:"numericRows"`
}

// Exporter writes extracted products to an output sink.
type Exporter interface {
	// Export writes the products and returns the number written.
	Export(ctx context.Context, products []*Product) (int, error)
}
