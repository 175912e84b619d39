package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Parser = (*TechInfoParser)(nil)

// StrategyTechInfo is the strategy name recorded on reference data products.
const StrategyTechInfo = "techinfo_reference"

var (
	awgPairRe      = regexp.MustCompile(`(?i)AWG\s*(\d{1,2})\s*=\s*([0-9]+(?:[.,][0-9]+)?)\s*mm`)
	materialTempRe = regexp.MustCompile(`(?i)\b(PVC|PUR|TPE)\b[^°\n\d]*?([-+]?\d{1,3}) *(?:° ?C)? *(?:\.{2,3}|to|bis|-) *([-+]?\d{1,3}) *° ?C`)
	refVoltageRe   = regexp.MustCompile(`(?i)\b(?:bis|up to)\s*([0-9]{2,4})\s*V\b`)
)

// TechInfoParser extracts generic reference data (AWG cross sections,
// material temperature ranges, reference voltages) from the technical
// information page. It always yields exactly one product.
type TechInfoParser struct{}

// NewTechInfoParser creates a TechInfoParser.
func NewTechInfoParser() *TechInfoParser {
	return &TechInfoParser{}
}

// Kind returns KindTechInfo.
func (p *TechInfoParser) Kind() specsheet.DocumentKind {
	return specsheet.KindTechInfo
}

// Parse produces a single "Reference Data" product.
func (p *TechInfoParser) Parse(doc *specsheet.Document) (*specsheet.ParseResult, error) {
	text := specsheet.NormalizeText(doc.Text())

	var specs []*specsheet.Spec
	for _, sub := range awgPairRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			continue
		}
		v, ok := specsheet.ParseNumber(sub[2])
		if !ok {
			continue
		}
		specs = append(specs, specsheet.NumSpec(fmt.Sprintf("awg_%d_mm2", n), v, "mm2", sub[0]))
	}

	for _, sub := range materialTempRe.FindAllStringSubmatch(text, -1) {
		lo, okLo := specsheet.ParseNumber(sub[2])
		hi, okHi := specsheet.ParseNumber(sub[3])
		if !okLo || !okHi {
			continue
		}
		mat := strings.ToLower(sub[1])
		specs = append(specs,
			specsheet.NumSpec(mat+"_temp_min_c", lo, "°C", sub[0]),
			specsheet.NumSpec(mat+"_temp_max_c", hi, "°C", sub[0]),
		)
	}

	for _, sub := range refVoltageRe.FindAllStringSubmatch(text, -1) {
		if v, ok := specsheet.ParseNumber(sub[1]); ok {
			specs = append(specs, specsheet.NumSpec("reference_voltage_v", v, "V", sub[0]))
		}
	}

	product := &specsheet.Product{
		Family:     "Reference Data",
		Name:       "General Technical Information",
		Kind:       specsheet.KindTechInfo,
		SourcePDF:  doc.Name,
		SourceHash: doc.Hash,
		Pages:      doc.PageNumbers(),
		Strategy:   StrategyTechInfo,
		Specs:      specs,
	}

	result := &specsheet.ParseResult{Products: []*specsheet.Product{product}}
	if len(specs) == 0 {
		product.Name += " (empty)"
		product.Description = "No reference specs were parsed"
		product.Notes = []string{"no matches found"}
		result.Warnings = append(result.Warnings, "no reference specs found")
	} else {
		product.Description = "Extracted normalization reference values"
	}
	return result, nil
}
