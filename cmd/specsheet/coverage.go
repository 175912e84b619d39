package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/specsheet"
)

// Run executes the coverage command.
func (c *CoverageCmd) Run(deps *Dependencies) error {
	coverage, err := deps.Products.SpecCoverage(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", specsheet.ErrorMessage(err))
		return err
	}
	if len(coverage) == 0 {
		fmt.Fprintln(deps.Stdout, "No specs stored. Use 'specsheet process' to extract some.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTOTAL\tNUMERIC")
	for _, k := range coverage {
		fmt.Fprintf(w, "%s\t%d\t%d\n", k.Key, k.TotalRows, k.NumericRows)
	}
	return w.Flush()
}
