package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Parser = (*M12Parser)(nil)

// M12 parser strategy names recorded on products.
const (
	StrategyM12Matrix   = "m12_matrix"
	StrategyM12Fallback = "m12_fallback"
)

// DefaultSeriesWindow is the distance, in bytes, searched around an
// ordering code for its series label.
const DefaultSeriesWindow = 400

const defaultSeries = "713 · 763"

var (
	combinedSeriesRe = regexp.MustCompile(`\b713\s*[·\-/]\s*763\b`)
	seriesRe         = regexp.MustCompile(`\b(713|763)\b`)
	cableLengthRe    = regexp.MustCompile(`\b(\d{1,2}(?:[.,]\d)?)\s*m\b`)
	jacketRe         = regexp.MustCompile(`\b(PUR|PVC|TPE)\b`)
	lineCodingRe     = regexp.MustCompile(`(?i)\b([A-DKLSTXY])[\s-]*(?:kodiert|coded|kodierung|codierung|coding)\b`)
	articleNumberRe  = regexp.MustCompile(`\b77\s?\d{4}\s?\d{4}\s?\d{4,5}\b`)
	articleBlockRe   = regexp.MustCompile(`\d{2,5}`)
)

// cablePattern reads one value of the bilingual cable data block.
type cablePattern struct {
	re   *regexp.Regexp
	spec func(sub []string) []*specsheet.Spec
}

func numCable(key, unit string) func([]string) []*specsheet.Spec {
	return func(sub []string) []*specsheet.Spec {
		v, ok := specsheet.ParseNumber(sub[1])
		if !ok {
			return []*specsheet.Spec{specsheet.TextSpec(key, sub[1], unit, sub[0])}
		}
		return []*specsheet.Spec{specsheet.NumSpec(key, v, unit, sub[0])}
	}
}

func rangeCable(prefix string) func([]string) []*specsheet.Spec {
	return func(sub []string) []*specsheet.Spec {
		lo, okLo := specsheet.ParseNumber(sub[1])
		hi, okHi := specsheet.ParseNumber(sub[2])
		if !okLo || !okHi {
			return nil
		}
		return []*specsheet.Spec{
			specsheet.NumSpec(prefix+"_min_c", lo, "°C", sub[0]),
			specsheet.NumSpec(prefix+"_max_c", hi, "°C", sub[0]),
		}
	}
}

var cablePatterns = []cablePattern{
	{
		re: regexp.MustCompile(`(?i)(?:Material\s*Mantel|Material\s*jacket)[^:\n]*?[:\s]\s*(PUR|PVC|TPE)\b`),
		spec: func(sub []string) []*specsheet.Spec {
			return []*specsheet.Spec{specsheet.TextSpec("material_jacket", strings.ToUpper(sub[1]), "", sub[0])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:Isolation\s*Litze|Insulation\s*wire)(?:\s*/\s*(?:Isolation\s*Litze|Insulation\s*wire))?\s*:?\s*([A-Za-z][A-Za-z0-9/ \-]*)`),
		spec: func(sub []string) []*specsheet.Spec {
			return []*specsheet.Spec{specsheet.TextSpec("insulation_wire", strings.TrimSpace(sub[1]), "", sub[0])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:Litzenaufbau|Design\s*of\s*wire)(?:\s*/\s*(?:Litzenaufbau|Design\s*of\s*wire))?\s*:?\s*(\d[0-9xX ,.]*\d)`),
		spec: func(sub []string) []*specsheet.Spec {
			return []*specsheet.Spec{specsheet.TextSpec("design_of_wire", strings.ReplaceAll(sub[1], " ", ""), "", sub[0])}
		},
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Kabelmantel\s*Ø|Cable\s*jacket\s*Ø)[^0-9\n]*([0-9]+(?:[.,][0-9]+)?)\s*mm`),
		spec: numCable("cable_diameter_mm", "mm"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Leiterwiderstand|Resistance\s*of\s*wire)[^0-9\n]*([0-9]+(?:[.,][0-9]+)?)\s*(?:Ω|Ohm)\s*/\s*km`),
		spec: numCable("resistance_ohm_per_km_20c", "Ω/km"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Temperaturbereich\s*\(Kabel\s*bewegt\)|Temperature\s*range\s*\(cable\s*in\s*move\))[^-+0-9\n]*([-+]?\d{1,3})[^\n]*?([-+]?\d{1,3})\s*°\s?C`),
		spec: rangeCable("cable_temp_move"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Temperaturbereich\s*\(Kabel\s*fest\)|Temperature\s*range\s*\(static\s*cable\))[^-+0-9\n]*([-+]?\d{1,3})[^\n]*?([-+]?\d{1,3})\s*°\s?C`),
		spec: rangeCable("cable_temp_fixed"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Biegeradius\s*\(Kabel\s*bewegt\)|Bending\s*radius\s*\(cable\s*in\s*move\))[^0-9\n]*([0-9]+)\s*x\s*D`),
		spec: numCable("bending_radius_move_d", "xD"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Biegeradius\s*\(Kabel\s*fest\)|Bending\s*radius\s*\(static\s*cable\))[^0-9\n]*([0-9]+)\s*x\s*D`),
		spec: numCable("bending_radius_fixed_d", "xD"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Biegezyklen|Bending\s*cycles)[^0-9\n]*([0-9]+(?:[.,][0-9]+)?)\s*Mio`),
		spec: numCable("bending_cycles_mio", "Mio"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Verfahrweg\s*horizontal\s*bis|Traverse\s*path\s*horizontal\s*up\s*to)[^0-9\n]*([0-9]+(?:[.,][0-9]+)?)\s*m/s\b`),
		spec: numCable("speed_ms", "m/s"),
	},
	{
		re:   regexp.MustCompile(`(?i)(?:Zulässige\s*Beschleunigung|Permitted\s*acceleration)[^0-9\n]*([0-9]+(?:[.,][0-9]+)?)\s*m/s2`),
		spec: numCable("acceleration_ms2", "m/s2"),
	},
}

// parseCableBlock reads the cable data block of a page.
func parseCableBlock(text string) []*specsheet.Spec {
	var specs []*specsheet.Spec
	for _, p := range cablePatterns {
		if sub := p.re.FindStringSubmatch(text); sub != nil {
			specs = append(specs, p.spec(sub)...)
		}
	}
	return specs
}

// M12Parser parses M12 connector catalogs. Each distinct ordering code
// becomes one product whose ratings are joined from the page's spec matrix
// by contact count.
type M12Parser struct {
	SeriesWindow int
}

// NewM12Parser creates an M12Parser with the default series window.
func NewM12Parser() *M12Parser {
	return &M12Parser{SeriesWindow: DefaultSeriesWindow}
}

// Kind returns KindM12Catalog.
func (p *M12Parser) Kind() specsheet.DocumentKind {
	return specsheet.KindM12Catalog
}

// Parse produces one product per ordering code in document order. The first
// occurrence of a code wins. A document without ordering codes yields a
// single degraded fallback product.
func (p *M12Parser) Parse(doc *specsheet.Document) (*specsheet.ParseResult, error) {
	result := &specsheet.ParseResult{}
	seen := make(map[string]bool)

	for _, page := range doc.Pages {
		text := specsheet.NormalizeText(page.Text)
		if text == "" {
			continue
		}
		page := specsheet.Page{Number: page.Number, Text: text}

		matrix := ReconstructMatrix(page)
		for _, d := range matrix.Drift {
			result.Warnings = append(result.Warnings, fmt.Sprintf("page %d: layout drift: %s", page.Number, d))
		}
		cable := parseCableBlock(text)

		matches := specsheet.FindOrderingCodes(text)
		for i, match := range matches {
			key := specsheet.OrderingCodeKey(match.Code)
			if seen[key] {
				continue
			}
			seen[key] = true

			product := p.variant(doc, page, matrix, cable, match, codeContext(text, matches, i))
			if product.Degraded {
				result.Warnings = append(result.Warnings, fmt.Sprintf("page %d: %s degraded: %s", page.Number, match.Code, strings.Join(product.Notes, "; ")))
			}
			result.Products = append(result.Products, product)
		}
	}

	if len(result.Products) == 0 {
		result.Products = append(result.Products, &specsheet.Product{
			Family:      "M12 Series",
			Name:        "M12 connector (catalog fallback)",
			Description: "No ordering codes found",
			Kind:        specsheet.KindM12Catalog,
			SourcePDF:   doc.Name,
			SourceHash:  doc.Hash,
			Pages:       doc.PageNumbers(),
			Strategy:    StrategyM12Fallback,
			Notes:       []string{"no ordering codes found"},
			Degraded:    true,
		})
		result.Warnings = append(result.Warnings, "no ordering codes found")
	}
	return result, nil
}

func (p *M12Parser) variant(doc *specsheet.Document, page specsheet.Page, matrix *Matrix, cable []*specsheet.Spec, match specsheet.OrderingCodeMatch, context string) *specsheet.Product {
	product := &specsheet.Product{
		Family:       "M12 Series " + p.nearestSeries(page.Text, match.Start),
		OrderingCode: match.Code,
		Name:         "M12 cable connector",
		Kind:         specsheet.KindM12Catalog,
		SourcePDF:    doc.Name,
		SourceHash:   doc.Hash,
		Pages:        []int{page.Number},
		Strategy:     StrategyM12Matrix,
	}

	join := matrix.Join(match.Code, context)
	if join.OK() {
		if specs, ok := matrix.Lookup(join.Contacts); ok {
			product.Specs = append(product.Specs, specs...)
		} else {
			product.Degraded = true
			product.Notes = append(product.Notes, fmt.Sprintf("matrix column for %d contacts is empty", join.Contacts))
		}
	} else {
		product.Degraded = true
		product.Notes = append(product.Notes, join.Reason)
	}

	for _, s := range cable {
		product.Specs = append(product.Specs, s.Clone())
	}

	for _, s := range lineFeatures(context) {
		if hasSpec(product.Specs, s.Key) {
			continue
		}
		if s.Key == "article_number" {
			product.ArticleNumber = *s.Text
		}
		product.Specs = append(product.Specs, s)
	}
	if !hasSpec(product.Specs, "coding") {
		product.Specs = append(product.Specs, specsheet.TextSpec("coding", "M12 A", "", "M12 A"))
	}

	if join.Contacts > 0 {
		product.Specs = append(product.Specs, specsheet.NumSpec("contacts", float64(join.Contacts), "", join.Raw))
	}
	return product
}

// lineFeatures reads the per-code values printed next to an ordering code.
func lineFeatures(context string) []*specsheet.Spec {
	var specs []*specsheet.Spec
	if sub := cableLengthRe.FindStringSubmatch(context); sub != nil {
		if v, ok := specsheet.ParseNumber(sub[1]); ok {
			specs = append(specs, specsheet.NumSpec("cable_length_m", v, "m", sub[0]))
		}
	}
	if sub := jacketRe.FindStringSubmatch(context); sub != nil {
		specs = append(specs, specsheet.TextSpec("material_jacket", sub[1], "", sub[0]))
	}
	if sub := lineCodingRe.FindStringSubmatch(context); sub != nil {
		specs = append(specs, specsheet.TextSpec("coding", "M12 "+strings.ToUpper(sub[1]), "", sub[0]))
	}
	if raw := articleNumberRe.FindString(context); raw != "" {
		number := strings.Join(articleBlockRe.FindAllString(raw, -1), " ")
		specs = append(specs, specsheet.TextSpec("article_number", number, "", raw))
	}
	return specs
}

// codeContext returns the text following the i-th code on its line, up to
// the next code on the same line.
func codeContext(text string, matches []specsheet.OrderingCodeMatch, i int) string {
	_, end := lineAt(text, matches[i].Start)
	if i+1 < len(matches) && matches[i+1].Start < end {
		end = matches[i+1].Start
	}
	return text[matches[i].End:end]
}

// nearestSeries returns the series label closest to offset: a combined
// "713 · 763" label within the window is preferred, then the nearest single
// series number.
func (p *M12Parser) nearestSeries(text string, offset int) string {
	window := p.SeriesWindow
	if window <= 0 {
		window = DefaultSeriesWindow
	}
	start := max(0, offset-window)
	end := min(len(text), offset+window)
	seg := text[start:end]

	if combinedSeriesRe.MatchString(seg) {
		return defaultSeries
	}

	type choice struct {
		series string
		dist   int
	}
	var choices []choice
	for _, loc := range seriesRe.FindAllStringIndex(seg, -1) {
		center := start + (loc[0]+loc[1])/2
		choices = append(choices, choice{seg[loc[0]:loc[1]], abs(center - offset)})
	}
	if len(choices) == 0 {
		return defaultSeries
	}
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].dist < choices[j].dist })
	return choices[0].series
}

func hasSpec(specs []*specsheet.Spec, key string) bool {
	for _, s := range specs {
		if s.Key == key {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
