package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/specsheet"
)

// Contact counts outside this range are not read as matrix columns.
const (
	minContacts = 1
	maxContacts = 24
)

var headerLabel = labelPattern("polzahl", "contacts", "number of contacts", "kontakte", "anzahl kontakte")

// matrixRow describes a known row of the M12 spec matrix.
type matrixRow struct {
	key   string
	label *regexp.Regexp
	cell  func(key, cell string) []*specsheet.Spec
}

var matrixRows = []matrixRow{
	{"rated_current_a", labelPattern("bemessungsstrom", "nennstrom", "rated current"), valueCell},
	{"rated_impulse_voltage_kv", labelPattern("bemessungsstoßspannung", "bemessungsstossspannung", "rated impulse voltage"), valueCell},
	{"rated_voltage_v", labelPattern("bemessungsspannung", "nennspannung", "rated voltage"), valueCell},
	{"pollution_degree", labelPattern("verschmutzungsgrad", "pollution degree"), valueCell},
	{"ip_rating", labelPattern("schutzart", "degree of protection", "protection class"), valueCell},
	{"contact_resistance_mohm", labelPattern("durchgangswiderstand", "kontaktwiderstand", "contact resistance"), valueCell},
	{"insulation_resistance", labelPattern("isolationswiderstand", "insulation resistance"), valueCell},
	{"wire_gauge", labelPattern("leiterquerschnitt", "anschlussquerschnitt", "wire gauge", "cross section"), gaugeCell},
	{"cable_diameter_mm", labelPattern("kabeldurchmesser", "kabel-ø", "cable diameter", "cable outer diameter"), valueCell},
	{"mating_cycles", labelPattern("steckzyklen", "mechanische lebensdauer", "mating cycles", "mechanical operation"), valueCell},
	{"coding", labelPattern("kodierung", "codierung", "coding"), codingCell},
	{"temp", labelPattern("temperaturbereich", "betriebstemperatur", "temperature range", "operating temperature"), rangeCell},
}

// Matrix maps contact counts to the specs of a page's shared spec matrix.
type Matrix struct {
	// Columns holds the contact counts in header order.
	Columns []int

	// Drift describes rows whose cell count matched neither the column count
	// nor a single broadcast value. Such rows contribute no specs.
	Drift []string

	buckets map[int][]*specsheet.Spec
}

// ReconstructMatrix parses the spec matrix blocks of one page. A block
// starts at a contact-count header line and runs while following lines are
// recognizable matrix rows. Blocks on the same page are merged; the first
// value seen for a key in a column wins.
func ReconstructMatrix(page specsheet.Page) *Matrix {
	m := &Matrix{buckets: make(map[int][]*specsheet.Spec)}

	lines := page.Lines()
	for i := 0; i < len(lines); i++ {
		cols, ok := parseHeader(lines[i])
		if !ok {
			continue
		}
		m.addColumns(cols)
		for i+1 < len(lines) {
			if _, isHeader := parseHeader(lines[i+1]); isHeader {
				break
			}
			if !m.parseRow(lines[i+1], cols) {
				break
			}
			i++
		}
	}
	return m
}

func parseHeader(line string) ([]int, bool) {
	region, ok := splitLabel(headerLabel, line)
	if !ok {
		return nil, false
	}
	fields := strings.Fields(region)
	cols := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "/" || f == "|" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < minContacts || n > maxContacts {
			return nil, false
		}
		cols = append(cols, n)
	}
	return cols, len(cols) > 0
}

func (m *Matrix) addColumns(cols []int) {
	for _, c := range cols {
		if !m.HasColumn(c) {
			m.Columns = append(m.Columns, c)
		}
	}
}

// parseRow reads one matrix row and reports whether the line belonged to
// the matrix.
func (m *Matrix) parseRow(line string, cols []int) bool {
	for _, row := range matrixRows {
		region, ok := splitLabel(row.label, line)
		if !ok {
			continue
		}
		if row.key == "temp" {
			if _, _, _, isRange := specsheet.ParseRange(region); isRange {
				m.broadcast(cols, row.cell(row.key, region))
				return true
			}
		}
		m.fill(line, row.key, region, cols, row.cell)
		return true
	}

	label, region, ok := genericLabel(line)
	if !ok || !hasLetter(label) {
		return false
	}
	if cells := specsheet.SplitCells(region); len(cells) != len(cols) {
		return false
	}
	key := specsheet.CanonicalKey(label)
	if key == "" {
		m.Drift = append(m.Drift, fmt.Sprintf("row %q has no usable label", line))
		return true
	}
	m.fill(line, key, region, cols, valueCell)
	return true
}

func (m *Matrix) fill(line, key, region string, cols []int, cell func(string, string) []*specsheet.Spec) {
	cells := specsheet.SplitCells(region)
	switch len(cells) {
	case len(cols):
		for i, c := range cols {
			m.put(c, cell(key, cells[i]))
		}
	case 1:
		m.broadcast(cols, cell(key, cells[0]))
	default:
		m.Drift = append(m.Drift, fmt.Sprintf("row %q has %d cells for %d columns", line, len(cells), len(cols)))
	}
}

func (m *Matrix) broadcast(cols []int, specs []*specsheet.Spec) {
	for _, c := range cols {
		m.put(c, specs)
	}
}

func (m *Matrix) put(contacts int, specs []*specsheet.Spec) {
	for _, s := range specs {
		if m.hasKey(contacts, s.Key) {
			continue
		}
		c := s.Clone()
		c.AppliesTo = map[string]any{"contacts": contacts}
		m.buckets[contacts] = append(m.buckets[contacts], c)
	}
}

func (m *Matrix) hasKey(contacts int, key string) bool {
	for _, s := range m.buckets[contacts] {
		if s.Key == key {
			return true
		}
	}
	return false
}

// HasColumn reports whether contacts is a column of the matrix.
func (m *Matrix) HasColumn(contacts int) bool {
	for _, c := range m.Columns {
		if c == contacts {
			return true
		}
	}
	return false
}

// Empty reports whether the page carried no matrix header.
func (m *Matrix) Empty() bool {
	return len(m.Columns) == 0
}

// Lookup returns copies of the specs for a contact count. ok is false if
// contacts is not a column or the column holds no specs.
func (m *Matrix) Lookup(contacts int) ([]*specsheet.Spec, bool) {
	bucket := m.buckets[contacts]
	if len(bucket) == 0 {
		return nil, false
	}
	out := make([]*specsheet.Spec, len(bucket))
	for i, s := range bucket {
		out[i] = s.Clone()
	}
	return out, true
}

var explicitContactsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*-?\s*(?:polig\b|pol\.|pins?\b|contacts?\b|kontakte\b)`)

// Join is the outcome of matching an ordering code to a matrix column.
type Join struct {
	// Contacts is the contact count determined for the code, 0 if none.
	Contacts int

	// Source names how the count was found: "line", "code" or "single".
	Source string

	// Raw is the fragment the count was read from.
	Raw string

	// Reason explains a failed join; empty when the join succeeded.
	Reason string
}

// OK reports whether the code joined a matrix column.
func (j Join) OK() bool {
	return j.Reason == ""
}

// Join determines the contact count of an ordering code. An explicit count
// in context wins, then the code's final two-digit block if it is a matrix
// column, then the only column of a single-column matrix.
func (m *Matrix) Join(code, context string) Join {
	if sub := explicitContactsRe.FindStringSubmatch(context); sub != nil {
		n, _ := strconv.Atoi(sub[1])
		j := Join{Contacts: n, Source: "line", Raw: sub[0]}
		if !m.HasColumn(n) {
			j.Reason = m.missReason(fmt.Sprintf("contact count %d is not a matrix column", n))
		}
		return j
	}

	suffix := specsheet.OrderingCodeSuffix(code)
	if n, err := strconv.Atoi(suffix); err == nil && m.HasColumn(n) {
		return Join{Contacts: n, Source: "code", Raw: code}
	}

	if len(m.Columns) == 1 {
		return Join{Contacts: m.Columns[0], Source: "single", Raw: code}
	}
	return Join{Reason: m.missReason("contact count could not be determined")}
}

func (m *Matrix) missReason(reason string) string {
	if m.Empty() {
		return "no spec matrix on page"
	}
	return reason
}

func valueCell(key, cell string) []*specsheet.Spec {
	return []*specsheet.Spec{specsheet.NewSpec(key, specsheet.ParseValue(cell))}
}

func gaugeCell(key, cell string) []*specsheet.Spec {
	if v, unit := specsheet.NormalizeGauge(cell); v != nil {
		return []*specsheet.Spec{specsheet.NumSpec(key+"_mm2", *v, unit, cell)}
	}
	return []*specsheet.Spec{specsheet.TextSpec(key+"_text", cell, "", cell)}
}

var codingLetterRe = regexp.MustCompile(`(?i)^(?:m12\s*)?([a-dklstxy])(?:[\s-]*(?:kodiert|coded|kodierung|codierung|coding))?$`)

func codingCell(key, cell string) []*specsheet.Spec {
	if sub := codingLetterRe.FindStringSubmatch(strings.TrimSpace(cell)); sub != nil {
		return []*specsheet.Spec{specsheet.TextSpec(key, "M12 "+strings.ToUpper(sub[1]), "", cell)}
	}
	return valueCell(key, cell)
}

// rangeCell expands a temperature range into its text form and bounds.
func rangeCell(_ string, cell string) []*specsheet.Spec {
	lo, hi, unit, ok := specsheet.ParseRange(cell)
	if !ok {
		return []*specsheet.Spec{specsheet.NewSpec("temp_c", specsheet.ParseValue(cell))}
	}
	if unit == "" {
		unit = "°C"
	}
	return []*specsheet.Spec{
		specsheet.TextSpec("temp_range_c", specsheet.FormatRange(lo, hi), unit, cell),
		specsheet.NumSpec("temp_min_c", lo, unit, cell),
		specsheet.NumSpec("temp_max_c", hi, unit, cell),
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f {
			return true
		}
	}
	return false
}
