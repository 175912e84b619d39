package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/specsheet"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	p, err := deps.Products.FindProductByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", specsheet.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s\n", p.Name)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(deps.Stdout, "  %-15s %s\n", label+":", value)
		}
	}
	field("ID", p.ID)
	field("Kind", string(p.Kind))
	field("Brand", p.Brand)
	field("Family", p.Family)
	field("Model", p.ModelNo)
	field("Article", p.ArticleNumber)
	field("Ordering code", p.OrderingCode)
	field("Description", p.Description)
	field("Source", fmt.Sprintf("%s (pages %s)", p.SourcePDF, joinInts(p.Pages)))
	field("Strategy", p.Strategy)
	if p.Degraded {
		field("Degraded", "yes")
	}
	for _, note := range p.Notes {
		field("Note", note)
	}

	if len(p.Specs) == 0 {
		fmt.Fprintln(deps.Stdout, "  No specs")
		return nil
	}

	fmt.Fprintln(deps.Stdout)
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tUNIT\tAPPLIES TO\tRAW")
	for _, s := range p.Specs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Key, specValue(s), dash(s.Unit), dash(appliesTo(s.AppliesTo)), s.Raw)
	}
	return w.Flush()
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

func appliesTo(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(parts, ",")
}
