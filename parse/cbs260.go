package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Parser = (*CBS260Parser)(nil)

// StrategyCBS260 is the strategy name recorded on CB-S 260 products.
const StrategyCBS260 = "cbs260_rows"

const defaultCBSVariant = "CB-S 260"

var (
	variantLabel = labelPattern("model", "modell", "variant", "variante", "type", "typ")
	variantRe    = regexp.MustCompile(`(?i)\bCB-?S\s?260(?:-[A-Z0-9]+)*`)
)

// rowKind selects how a data sheet row value is expanded into specs.
type rowKind int

const (
	valueRow rowKind = iota
	rangeRow
)

// sheetRow describes a labelled row of the CB-S 260 technical data table.
type sheetRow struct {
	key   string
	kind  rowKind
	unit  string // default unit for ranges without one
	label *regexp.Regexp
}

// Order matters where labels share a prefix.
var sheetRows = []sheetRow{
	{"temp", rangeRow, "°C", labelPattern("temperature range", "temperaturbereich", "temperature", "temperatur")},
	{"co2", rangeRow, "%", labelPattern("co2 range", "co2-bereich", "co2 bereich", "co2 control range", "co2-regelbereich", "co2")},
	{"o2", rangeRow, "%", labelPattern("o2 range", "o2-bereich", "o2 bereich", "o2 control range", "o2-regelbereich", "o2")},
	{"humidity", rangeRow, "%", labelPattern("relative humidity", "humidity", "relative feuchte", "feuchte", "luftfeuchte")},
	{"frequency_hz", valueRow, "", labelPattern("power frequency", "frequency", "netzfrequenz", "frequenz")},
	{"nominal_power_kw", valueRow, "", labelPattern("nominal power", "nennleistung", "power", "leistung")},
	{"nominal_voltage_v", valueRow, "", labelPattern("nominal voltage", "nennspannung", "voltage", "spannung")},
	{"nominal_current_a", valueRow, "", labelPattern("nominal current", "nennstrom", "current", "strom")},
	{"interior_volume_l", valueRow, "", labelPattern("interior volume", "innenvolumen", "volume", "volumen")},
	{"weight_kg", valueRow, "", labelPattern("weight (empty)", "gewicht (leer)", "net weight", "weight", "gewicht")},
	{"shelves", valueRow, "", labelPattern("number of shelves", "anzahl einschübe", "shelves", "einschübe")},
	{"width_mm", valueRow, "", labelPattern("exterior width", "außenmaße breite", "width", "breite")},
	{"height_mm", valueRow, "", labelPattern("exterior height", "außenmaße höhe", "height", "höhe")},
	{"depth_mm", valueRow, "", labelPattern("exterior depth", "außenmaße tiefe", "depth", "tiefe")},
}

var (
	tempFallbackRe  = regexp.MustCompile(`(?i)Temperature\s*range\s*:\s*\+?(\d{1,3})\s*°\s?C.*?\+?(\d{1,3})\s*°\s?C`)
	tempFromRe      = regexp.MustCompile(`(?i)from\s*\+?(\d{1,3})\s*°\s?C\s*(?:to|-)\s*\+?(\d{1,3})\s*°\s?C`)
	co2FallbackRe   = regexp.MustCompile(`(?i)CO\s*2[^%\n]*?(?:range|:)?\s*0\s*(?:to|-)\s*([0-9]{1,2})\s*(?:vol\.?-?%|%)`)
	powerFallbackRe = regexp.MustCompile(`(?i)(?:Nominal\s*power|Power)\s*:?\s*([0-9]+(?:[.,][0-9]+)?)\s*kW`)
	dimFallbackRe   = regexp.MustCompile(`(?i)(\d{2,4})\s*mm\b`)
)

// CBS260Parser parses the BINDER CB-S 260 data sheet. When the sheet lists
// several model variants side by side, rows with one value per variant are
// split into parallel per-variant records.
type CBS260Parser struct{}

// NewCBS260Parser creates a CBS260Parser.
func NewCBS260Parser() *CBS260Parser {
	return &CBS260Parser{}
}

// Kind returns KindCBS260.
func (p *CBS260Parser) Kind() specsheet.DocumentKind {
	return specsheet.KindCBS260
}

// sheet accumulates specs while the data sheet is scanned.
type sheet struct {
	variants []string
	shared   []*specsheet.Spec
	parallel map[string][]*specsheet.Spec
	seen     map[string]bool
	pending  []pendingRow
	warnings []string
	notes    []string
}

func (s *sheet) addShared(specs ...*specsheet.Spec) {
	s.shared = append(s.shared, specs...)
}

func (s *sheet) addVariant(name string, specs ...*specsheet.Spec) {
	for _, spec := range specs {
		spec.AppliesTo = map[string]any{"variant": name}
	}
	s.parallel[name] = append(s.parallel[name], specs...)
}

// Parse produces one product per model variant.
func (p *CBS260Parser) Parse(doc *specsheet.Document) (*specsheet.ParseResult, error) {
	text := specsheet.NormalizeText(doc.Text())
	lines := strings.Split(text, "\n")

	s := &sheet{
		variants: findVariants(lines),
		parallel: make(map[string][]*specsheet.Spec),
		seen:     make(map[string]bool),
	}

	for _, line := range lines {
		for _, row := range sheetRows {
			if s.seen[row.key] {
				continue
			}
			region, ok := splitLabel(row.label, line)
			if !ok || !strings.ContainsAny(region, "0123456789") {
				continue
			}
			if row.kind == rangeRow && !s.rangeRow(row, region) {
				s.hold(row, region)
				break
			}
			if row.kind == valueRow {
				s.valueRow(row, region)
			}
			s.seen[row.key] = true
			break
		}
	}

	s.fallbacks(text)
	for _, p := range s.pending {
		if !s.seen[p.row.key] {
			s.valueRow(sheetRow{key: p.row.key + "_" + unitSuffix(p.row.unit), kind: valueRow}, p.region)
		}
	}

	result := &specsheet.ParseResult{Warnings: s.warnings}
	for _, name := range s.variants {
		result.Products = append(result.Products, s.product(doc, name))
	}
	return result, nil
}

// pendingRow is a range row whose value did not parse as a range. It is
// kept as text only if no later row or fallback supplies the range.
type pendingRow struct {
	row    sheetRow
	region string
}

// findVariants returns the distinct model names listed on the variant line,
// or the default model when the sheet has none.
func findVariants(lines []string) []string {
	for _, line := range lines {
		region, ok := splitLabel(variantLabel, line)
		if !ok {
			continue
		}
		var names []string
		seen := make(map[string]bool)
		for _, raw := range variantRe.FindAllString(region, -1) {
			name := canonicalVariant(raw)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return []string{defaultCBSVariant}
}

var cbsPrefixRe = regexp.MustCompile(`(?i)^CB-?S\s?260`)

func canonicalVariant(raw string) string {
	return cbsPrefixRe.ReplaceAllString(strings.TrimSpace(raw), defaultCBSVariant)
}

// rangeRow adds the range specs of a row and reports whether region held a range.
func (s *sheet) rangeRow(row sheetRow, region string) bool {
	lo, hi, unit, ok := specsheet.ParseRange(region)
	if !ok {
		return false
	}
	if unit == "" {
		unit = row.unit
	}
	s.addShared(rangeSpecs(row.key, unitSuffix(row.unit), lo, hi, unit, region)...)
	return true
}

func (s *sheet) hold(row sheetRow, region string) {
	for _, p := range s.pending {
		if p.row.key == row.key {
			return
		}
	}
	s.pending = append(s.pending, pendingRow{row: row, region: region})
}

// rangeSpecs expands a range into "<key>_range_<suffix>" text plus min/max
// numerics. Temperature keeps the historical temp_range_c key names.
func rangeSpecs(key, suffix string, lo, hi float64, unit, raw string) []*specsheet.Spec {
	return []*specsheet.Spec{
		specsheet.TextSpec(key+"_range_"+suffix, specsheet.FormatRange(lo, hi), unit, raw),
		specsheet.NumSpec(key+"_min_"+suffix, lo, unit, raw),
		specsheet.NumSpec(key+"_max_"+suffix, hi, unit, raw),
	}
}

func unitSuffix(unit string) string {
	if unit == "°C" {
		return "c"
	}
	return "percent"
}

func (s *sheet) valueRow(row sheetRow, region string) {
	cells := specsheet.SplitCells(region)
	values := make([]specsheet.Value, len(cells))
	for i, c := range cells {
		values[i] = specsheet.ParseValue(c)
	}

	split, ok := specsheet.SplitParallel(values, s.variants)
	switch {
	case !ok:
		s.addShared(specsheet.TextSpec(row.key, region, "", region))
		if len(s.variants) > 1 {
			s.warnings = append(s.warnings, fmt.Sprintf("%s: %d values for %d variants", row.key, len(values), len(s.variants)))
		}
	case len(values) == 1 || len(s.variants) == 1:
		s.addShared(specsheet.NewSpec(row.key, values[0]))
	default:
		for _, name := range s.variants {
			s.addVariant(name, specsheet.NewSpec(row.key, split[name]))
		}
	}
}

// fallbacks applies whole-text patterns for values no table row provided.
func (s *sheet) fallbacks(text string) {
	var used []string

	if !s.seen["temp"] {
		sub := tempFallbackRe.FindStringSubmatch(text)
		if sub == nil {
			sub = tempFromRe.FindStringSubmatch(text)
		}
		if sub != nil {
			lo, _ := specsheet.ParseNumber(sub[1])
			hi, _ := specsheet.ParseNumber(sub[2])
			s.addShared(rangeSpecs("temp", "c", lo, hi, "°C", sub[0])...)
			s.seen["temp"] = true
			used = append(used, "temp")
		}
	}

	if !s.seen["co2"] {
		if sub := co2FallbackRe.FindStringSubmatch(text); sub != nil {
			hi, _ := specsheet.ParseNumber(sub[1])
			s.addShared(rangeSpecs("co2", "percent", 0, hi, "%", sub[0])...)
			s.seen["co2"] = true
			used = append(used, "co2")
		}
	}

	if !s.seen["nominal_power_kw"] {
		if sub := powerFallbackRe.FindStringSubmatch(text); sub != nil {
			if v, ok := specsheet.ParseNumber(sub[1]); ok {
				s.addShared(specsheet.NumSpec("nominal_power_kw", v, "kW", sub[0]))
				used = append(used, "nominal_power_kw")
			}
		}
	}

	if !s.seen["width_mm"] && !s.seen["height_mm"] && !s.seen["depth_mm"] {
		dims := dimFallbackRe.FindAllStringSubmatch(text, 3)
		if len(dims) == 3 {
			for i, key := range []string{"width_mm", "height_mm", "depth_mm"} {
				v, _ := specsheet.ParseNumber(dims[i][1])
				s.addShared(specsheet.NumSpec(key, v, "mm", dims[i][0]))
			}
			used = append(used, "dimensions")
		}
	}

	if len(used) > 0 {
		s.notes = append(s.notes, "text fallback for "+strings.Join(used, ", "))
	}
}

func (s *sheet) product(doc *specsheet.Document, name string) *specsheet.Product {
	product := &specsheet.Product{
		Brand:      "BINDER",
		Family:     "CB-S",
		Name:       "Model " + name + " | CO2 incubator",
		Kind:       specsheet.KindCBS260,
		SourcePDF:  doc.Name,
		SourceHash: doc.Hash,
		Pages:      doc.PageNumbers(),
		Strategy:   StrategyCBS260,
		Notes:      append([]string(nil), s.notes...),
	}
	for _, spec := range s.shared {
		product.Specs = append(product.Specs, spec.Clone())
	}
	for _, spec := range s.parallel[name] {
		product.Specs = append(product.Specs, spec.Clone())
	}
	product.ModelNo = modelNumber(name, product.Specs)

	if len(product.Specs) == 0 {
		product.Degraded = true
		product.Notes = append(product.Notes, "no specifications recognized")
	}
	if len(s.variants) > 1 {
		product.Notes = append(product.Notes, fmt.Sprintf("parallel variant %d of %d", indexOf(s.variants, name)+1, len(s.variants)))
	}
	return product
}

// modelNumber derives "CBS260[-suffix][-<voltage>V]" from a variant name.
func modelNumber(name string, specs []*specsheet.Spec) string {
	model := "CBS260"
	if suffix := strings.Trim(strings.TrimPrefix(name, defaultCBSVariant), "- "); suffix != "" {
		model += "-" + suffix
	}
	for _, s := range specs {
		if s.Key == "nominal_voltage_v" && s.Num != nil {
			return model + "-" + specsheet.FormatNumber(*s.Num) + "V"
		}
	}
	return model
}

func indexOf(items []string, item string) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}
