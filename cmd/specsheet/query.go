package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/specsheet"
)

// Run executes the query model command.
func (c *QueryModelCmd) Run(deps *Dependencies) error {
	return findProducts(deps, specsheet.ProductFilter{Model: &c.Model})
}

// Run executes the query brand command.
func (c *QueryBrandCmd) Run(deps *Dependencies) error {
	return findProducts(deps, specsheet.ProductFilter{Brand: &c.Brand})
}

// Run executes the query spec command.
func (c *QuerySpecCmd) Run(deps *Dependencies) error {
	return findSpecs(deps, specsheet.SpecFilter{Key: &c.Key, Op: c.Op, Value: &c.Value})
}

// Run executes the query text command.
func (c *QueryTextCmd) Run(deps *Dependencies) error {
	filter := specsheet.SpecFilter{Key: &c.Key}
	switch {
	case c.Contains != "":
		filter.Contains = &c.Contains
	case c.Equals != "":
		filter.Equals = &c.Equals
	default:
		fmt.Fprintf(deps.Stderr, "error: one of --contains or --equals is required\n")
		return specsheet.Errorf(specsheet.EINVALID, "one of --contains or --equals is required")
	}
	return findSpecs(deps, filter)
}

// Run executes the query code command.
func (c *QueryCodeCmd) Run(deps *Dependencies) error {
	matches, err := deps.Products.FindSpecs(deps.Ctx, specsheet.SpecFilter{OrderingCode: &c.Code})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", specsheet.ErrorMessage(err))
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No results")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tKEY\tVALUE\tUNIT\tRAW")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.Product.ID, m.Spec.Key, specValue(m.Spec), dash(m.Spec.Unit), m.Spec.Raw)
	}
	return w.Flush()
}

func findProducts(deps *Dependencies, filter specsheet.ProductFilter) error {
	products, err := deps.Products.FindProducts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", specsheet.ErrorMessage(err))
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(deps.Stdout, "No results")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBRAND\tFAMILY\tMODEL\tARTICLE\tCODE\tNAME\tSOURCE")
	for _, p := range products {
		writeProduct(w, p)
	}
	return w.Flush()
}

func findSpecs(deps *Dependencies, filter specsheet.SpecFilter) error {
	matches, err := deps.Products.FindSpecs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", specsheet.ErrorMessage(err))
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No results")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBRAND\tMODEL\tCODE\tNAME\tKEY\tVALUE\tUNIT\tSOURCE")
	for _, m := range matches {
		p := m.Product
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, dash(p.Brand), dash(p.ModelNo), dash(p.OrderingCode), p.Name,
			m.Spec.Key, specValue(m.Spec), dash(m.Spec.Unit), p.SourcePDF)
	}
	return w.Flush()
}

func writeProduct(w io.Writer, p *specsheet.Product) {
	name := p.Name
	if p.Degraded {
		name += " [degraded]"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		p.ID, dash(p.Brand), dash(p.Family), dash(p.ModelNo), dash(p.ArticleNumber),
		dash(p.OrderingCode), name, p.SourcePDF)
}

// specValue renders the numeric value if present, else the text value.
func specValue(s *specsheet.Spec) string {
	if s.Num != nil {
		return specsheet.FormatNumber(*s.Num)
	}
	if s.Text != nil {
		return *s.Text
	}
	return "-"
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
