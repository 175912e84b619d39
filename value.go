package specsheet

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Value is a normalized (numeric, text, unit) triple parsed from a raw fragment.
type Value struct {
	Num  *float64
	Text *string
	Unit string
	Raw  string
}

// IsNumeric reports whether the value carries a number.
func (v Value) IsNumeric() bool {
	return v.Num != nil
}

// Float64 returns a pointer to f.
func Float64(f float64) *float64 {
	return &f
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

var dashReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"‐", "-",
	"‑", "-",
	"\t", " ",
)

// NormalizeText prepares extracted PDF text for pattern matching.
// It applies NFKC (so mm² reads mm2 and CO₂ reads CO2), folds dash variants
// to '-', collapses runs of spaces and drops blank lines.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = dashReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

var numberRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// ParseNumber parses a decimal number that may use a comma as decimal separator.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	s = strings.ReplaceAll(s, ",", ".")
	if !numberRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// exactUnits are matched case-sensitively; ohm prefixes differ only by case.
var exactUnits = map[string]string{
	"mΩ":     "mΩ",
	"mOhm":   "mΩ",
	"MΩ":     "MΩ",
	"MOhm":   "MΩ",
	"GΩ":     "GΩ",
	"GOhm":   "GΩ",
	"Ω":      "Ω",
	"Ohm":    "Ω",
	"Ω/km":   "Ω/km",
	"Ohm/km": "Ω/km",
	"mA":     "mA",
	"MA":     "MA",
}

var foldedUnits = map[string]string{
	"°c":      "°C",
	"° c":     "°C",
	"°":       "°C",
	"c°":      "°C",
	"mm2":     "mm2",
	"qmm":     "mm2",
	"mm":      "mm",
	"cm":      "cm",
	"m":       "m",
	"kv":      "kV",
	"v":       "V",
	"vac":     "V AC",
	"vdc":     "V DC",
	"v ac":    "V AC",
	"v dc":    "V DC",
	"a":       "A",
	"kw":      "kW",
	"w":       "W",
	"hz":      "Hz",
	"%":       "%",
	"vol.%":   "%",
	"vol%":    "%",
	"vol.-%":  "%",
	"% rh":    "% rH",
	"%rh":     "% rH",
	"kg":      "kg",
	"g":       "g",
	"l":       "L",
	"liter":   "L",
	"litre":   "L",
	"m/s":     "m/s",
	"m/s2":    "m/s2",
	"mio":     "Mio",
	"mio.":    "Mio",
	"x d":     "xD",
	"xd":      "xD",
	"awg":     "AWG",
	"n":       "N",
	"nm":      "Nm",
	"cycles":  "cycles",
	"zyklen":  "cycles",
	"steckz.": "cycles",
}

// CanonicalUnit returns the canonical spelling of a unit token and whether it
// is a known unit.
func CanonicalUnit(tok string) (string, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", false
	}
	if u, ok := exactUnits[tok]; ok {
		return u, true
	}
	if u, ok := foldedUnits[strings.ToLower(tok)]; ok {
		return u, true
	}
	return tok, false
}

// IsUnit reports whether tok is a known unit.
func IsUnit(tok string) bool {
	_, ok := CanonicalUnit(tok)
	return ok
}

var valueRe = regexp.MustCompile(`^(?:[<>≤≥]=?\s*|(?i:max\.?|min\.?|ca\.?)\s*)?([-+]?\d+(?:[.,]\d+)?)\s*(.*)$`)

// ParseValue converts a raw fragment such as "12 A" into a Value with
// Num=12 and Unit="A". Fragments that do not start with a number, or whose
// number is malformed, are stored as text only. A number followed by an
// unknown suffix keeps both the number and the raw text.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	v := Value{Raw: raw}
	if raw == "" {
		return v
	}

	m := valueRe.FindStringSubmatch(raw)
	if m == nil {
		v.Text = String(raw)
		return v
	}

	rest := strings.TrimSpace(m[2])
	if rest != "" && (rest[0] == '.' || rest[0] == ',' || (rest[0] >= '0' && rest[0] <= '9')) {
		v.Text = String(raw)
		return v
	}

	num, ok := ParseNumber(m[1])
	if !ok {
		v.Text = String(raw)
		return v
	}
	v.Num = Float64(num)

	if rest == "" {
		return v
	}
	if unit, ok := CanonicalUnit(rest); ok {
		v.Unit = unit
		return v
	}
	v.Text = String(raw)
	return v
}

var rangeRe = regexp.MustCompile(`([-+]?\d+(?:[.,]\d+)?)\s*(°\s?C|%|V|A|mm|kW)?\s*(?:\.\.\.|…|(?i:to|bis|up to))\s*([-+]?\d+(?:[.,]\d+)?)\s*(°\s?C|%|V|A|mm|kW)?`)

var dashRangeRe = regexp.MustCompile(`([-+]?\d+(?:[.,]\d+)?)\s*(°\s?C|%|V|A|mm|kW)?\s*[-/]\s*([-+]?\d+(?:[.,]\d+)?)\s*(°\s?C|%|V|A|mm|kW)`)

// ParseRange extracts a numeric range such as "-40 °C ... +85 °C",
// "+7 °C to +50 °C" or "0 - 20 %". The bounds are returned as written; a
// dash-separated range requires a trailing unit to avoid reading a negative
// number as a separator.
func ParseRange(raw string) (lo, hi float64, unit string, ok bool) {
	m := rangeRe.FindStringSubmatch(raw)
	if m == nil {
		m = dashRangeRe.FindStringSubmatch(raw)
	}
	if m == nil {
		return 0, 0, "", false
	}
	lo, ok1 := ParseNumber(m[1])
	hi, ok2 := ParseNumber(m[3])
	if !ok1 || !ok2 {
		return 0, 0, "", false
	}
	u := m[4]
	if u == "" {
		u = m[2]
	}
	unit, _ = CanonicalUnit(strings.ReplaceAll(u, " ", ""))
	return lo, hi, unit, true
}

// FormatRange renders a range as "lo-hi" using the shortest number form.
func FormatRange(lo, hi float64) string {
	return FormatNumber(lo) + "-" + FormatNumber(hi)
}

// FormatNumber renders f without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SplitCells splits the value region of a table row into cells. A number
// followed by a unit token forms one cell ("4 A"), as does a gauge ("AWG 22").
// Separator tokens ('/', '|') are dropped.
func SplitCells(region string) []string {
	toks := strings.Fields(region)
	cells := make([]string, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok == "/" || tok == "|" {
			continue
		}
		if strings.EqualFold(tok, "awg") && i+1 < len(toks) {
			if _, isNum := ParseNumber(toks[i+1]); isNum {
				cells = append(cells, tok+" "+toks[i+1])
				i++
				continue
			}
		}
		if _, ok := ParseNumber(tok); ok && i+1 < len(toks) {
			next := toks[i+1]
			if _, isNum := ParseNumber(next); !isNum && IsUnit(next) {
				cells = append(cells, tok+" "+next)
				i++
				continue
			}
		}
		cells = append(cells, tok)
	}
	return cells
}

// SplitParallel distributes values over named variants. A single value is
// shared by every variant; as many values as variants are assigned in
// order. Any other count cannot be attributed and returns false.
func SplitParallel(values []Value, variants []string) (map[string]Value, bool) {
	if len(variants) == 0 || len(values) == 0 {
		return nil, false
	}
	out := make(map[string]Value, len(variants))
	switch len(values) {
	case 1:
		for _, name := range variants {
			out[name] = values[0]
		}
	case len(variants):
		for i, name := range variants {
			out[name] = values[i]
		}
	default:
		return nil, false
	}
	return out, true
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "ae", "Ö", "oe", "Ü", "ue",
	"Ø", "diameter", "ø", "diameter",
	"°", "deg", "Ω", "ohm",
)

var keySepRe = regexp.MustCompile(`[^a-z0-9]+`)

// CanonicalKey converts a label or header into a snake_case ASCII key.
func CanonicalKey(label string) string {
	s := umlautReplacer.Replace(norm.NFKC.String(label))
	s = keySepRe.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

// awgToMM2 holds cross sections for the gauges used in the catalogs.
var awgToMM2 = map[int]float64{
	24: 0.205,
	23: 0.258,
	22: 0.326,
	21: 0.410,
	20: 0.519,
	19: 0.653,
	18: 0.823,
}

var (
	mm2Re = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*mm2\b`)
	awgRe = regexp.MustCompile(`(?i)\bawg\s*([0-9]{1,2})\b|\b([0-9]{1,2})\s*awg\b`)
)

// NormalizeGauge converts a wire gauge expression to mm2. A direct cross
// section returns unit "mm2"; a tabled AWG size returns an estimate with
// unit "mm2_est"; an AWG size outside the table returns nil with unit "awg".
func NormalizeGauge(raw string) (*float64, string) {
	text := norm.NFKC.String(strings.TrimSpace(raw))
	if m := mm2Re.FindStringSubmatch(text); m != nil {
		if v, ok := ParseNumber(m[1]); ok {
			return Float64(v), "mm2"
		}
	}
	if m := awgRe.FindStringSubmatch(text); m != nil {
		size := m[1]
		if size == "" {
			size = m[2]
		}
		n, err := strconv.Atoi(size)
		if err == nil {
			if v, ok := awgToMM2[n]; ok {
				return Float64(v), "mm2_est"
			}
		}
		return nil, "awg"
	}
	return nil, ""
}

// NewSpec assembles a spec from a parsed value. A value with neither number
// nor text keeps the raw fragment as text.
func NewSpec(key string, v Value) *Spec {
	s := &Spec{
		Key:  key,
		Num:  v.Num,
		Text: v.Text,
		Unit: v.Unit,
		Raw:  v.Raw,
	}
	if s.Num == nil && s.Text == nil && v.Raw != "" {
		s.Text = String(v.Raw)
	}
	return s
}

// NumSpec returns a numeric spec.
func NumSpec(key string, num float64, unit, raw string) *Spec {
	return &Spec{Key: key, Num: Float64(num), Unit: unit, Raw: raw}
}

// TextSpec returns a text-only spec.
func TextSpec(key, text, unit, raw string) *Spec {
	return &Spec{Key: key, Text: String(text), Unit: unit, Raw: raw}
}
