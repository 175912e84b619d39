// Package classify decides which known PDF template a document matches.
package classify

import (
	"strings"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Classifier = (*Classifier)(nil)

// maxCodeBonus caps the weight of ordering-code density.
const maxCodeBonus = 100

// filenameBonus is added when the file name names a template.
const filenameBonus = 5

// markers holds the template-distinctive phrases of one document kind.
type markers struct {
	positives []string
	negatives []string
}

var (
	cbs260Markers = markers{
		positives: []string{"binder", "cb-s", "co2", "co₂", "incubator", "model cb-s"},
	}
	m12Markers = markers{
		positives: []string{
			"m12", "sensorik", "aktorik",
			"serie 713", "serie 763",
			"ordering-no", "ordering code", "bestell-nr.", "steckverbinder", "kabelstecker",
		},
		negatives: []string{"technische information", "technische informationen", "allgemeine hinweise"},
	}
	techInfoMarkers = markers{
		positives: []string{"technische information", "technische informationen", "allgemeine hinweise", "awg"},
		negatives: []string{"serie 713", "serie 763", "ordering-no", "ordering code", "bestell-nr.", "m12"},
	}
)

// tieOrder ranks kinds when scores are equal.
var tieOrder = []specsheet.DocumentKind{
	specsheet.KindCBS260,
	specsheet.KindM12Catalog,
	specsheet.KindTechInfo,
}

// Classifier scores extracted text against marker phrases of each known
// template, weighs in ordering-code density and a file name bias, and
// picks the best scoring kind.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the kind with the highest positive score. Ties break
// CBS260 > M12 > TI; a best score of zero or less, or empty text, yields
// KindUnknown.
func (c *Classifier) Classify(text, filename string) specsheet.Classification {
	result := specsheet.Classification{
		Kind:   specsheet.KindUnknown,
		Scores: make(map[specsheet.DocumentKind]int, len(tieOrder)),
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	lower := strings.ToLower(text)
	name := strings.ToLower(filename)

	codes := specsheet.CountOrderingCodes(text)
	result.OrderingCodes = codes
	bonus := min(codes, maxCodeBonus)

	cbs := score(lower, cbs260Markers)
	m12 := score(lower, m12Markers) + bonus
	ti := score(lower, techInfoMarkers) - bonus

	if strings.Contains(name, "serie_713_763") || strings.Contains(name, "m12") {
		m12 += filenameBonus
	}
	if strings.Contains(name, "technische_info") {
		ti += filenameBonus
	}

	result.Scores[specsheet.KindCBS260] = cbs
	result.Scores[specsheet.KindM12Catalog] = m12
	result.Scores[specsheet.KindTechInfo] = ti

	best := 0
	for _, kind := range tieOrder {
		if s := result.Scores[kind]; s > best {
			best = s
			result.Kind = kind
		}
	}
	return result
}

// score adds one per positive marker present and subtracts one per negative
// marker present. text must already be lower case.
func score(text string, m markers) int {
	n := 0
	for _, p := range m.positives {
		if strings.Contains(text, p) {
			n++
		}
	}
	for _, p := range m.negatives {
		if strings.Contains(text, p) {
			n--
		}
	}
	return n
}
