package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/ingest"
)

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	if deps.Ingester == nil {
		return specsheet.Errorf(specsheet.EINTERNAL, "ingester not configured")
	}

	progress := func(event ingest.ProgressEvent) {
		name := filepath.Base(event.Path)
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d PDFs in %s\n", event.Total, c.Dir)
		case ingest.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %s, %d products\n",
				event.Completed, event.Total, name, event.Kind, event.Products)
		case ingest.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: skipped (%s)\n",
				event.Completed, event.Total, name, event.Kind)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s: %v\n", event.Completed, event.Total, name, event.Error)
		}
	}

	result, err := deps.Ingester.IngestDir(deps.Ctx, c.Dir, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Processed %d of %d PDFs: %d products, %d specs",
		result.Processed, result.Files, result.Products, result.Specs)
	if result.Degraded > 0 {
		fmt.Fprintf(deps.Stdout, ", %d degraded", result.Degraded)
	}
	fmt.Fprintln(deps.Stdout)
	if kinds := formatKinds(result.Kinds); kinds != "" {
		fmt.Fprintf(deps.Stdout, "  Kinds: %s\n", kinds)
	}
	if result.Skipped > 0 || result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  Skipped %d, failed %d\n", result.Skipped, result.Failed)
	}
	if result.Warnings > 0 {
		fmt.Fprintf(deps.Stdout, "  %d parse warnings (use --verbose to see them)\n", result.Warnings)
	}
	if c.JSONL != "" {
		fmt.Fprintf(deps.Stdout, "  Exported JSONL to %s\n", c.JSONL)
	}
	if c.XLSX != "" {
		fmt.Fprintf(deps.Stdout, "  Exported XLSX to %s\n", c.XLSX)
	}
	if c.DumpText != "" && result.Files > result.Failed {
		fmt.Fprintf(deps.Stdout, "  Wrote extracted text to %s\n", c.DumpText)
	}
	return nil
}

// errorText returns the domain message of err, or err itself for
// infrastructure errors.
func errorText(err error) string {
	if specsheet.ErrorCode(err) == specsheet.EINTERNAL {
		return err.Error()
	}
	return specsheet.ErrorMessage(err)
}

func formatKinds(kinds map[specsheet.DocumentKind]int) string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, kinds[specsheet.DocumentKind(name)])
	}
	return strings.Join(parts, " ")
}
