package specsheet

import (
	"regexp"
	"strings"
)

// orderingCodeRe matches vendor ordering codes such as "99 0429 43 04",
// "99 1491 812 12" or "9904294304". The middle repetition is lazy so a
// trailing quantity ("10 m") is not read as the final block.
var orderingCodeRe = regexp.MustCompile(`\b9\d\s?\d{3,4}\s?(?:\d{2,4}\s?){1,2}?\d{2}\b`)

var digitBlockRe = regexp.MustCompile(`\d{2,4}`)

// OrderingCodeMatch is an ordering code found in text.
type OrderingCodeMatch struct {
	Code  string // canonical, space-separated blocks
	Raw   string
	Start int
	End   int
}

// FindOrderingCodes returns every ordering code in text in order of appearance.
func FindOrderingCodes(text string) []OrderingCodeMatch {
	locs := orderingCodeRe.FindAllStringIndex(text, -1)
	out := make([]OrderingCodeMatch, 0, len(locs))
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		out = append(out, OrderingCodeMatch{
			Code:  CanonicalOrderingCode(raw),
			Raw:   raw,
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

// CountOrderingCodes returns the number of ordering codes in text.
func CountOrderingCodes(text string) int {
	return len(orderingCodeRe.FindAllStringIndex(text, -1))
}

// CanonicalOrderingCode normalizes block spacing of an ordering code.
// Codes written without spaces are grouped in the catalog scheme
// "99 0429 43 04": two digits, four digits, the middle block, two digits.
func CanonicalOrderingCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, " ") {
		return strings.Join(digitBlockRe.FindAllString(raw, -1), " ")
	}
	if mid := len(raw) - 8; mid >= 2 && mid <= 4 {
		return raw[:2] + " " + raw[2:6] + " " + raw[6:6+mid] + " " + raw[6+mid:]
	}
	return raw
}

// OrderingCodeKey returns the digits of a code, identifying it regardless
// of how its blocks are spaced.
func OrderingCodeKey(code string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
}

// OrderingCodeSuffix returns the final two-digit block of a code, which
// carries the contact count in the catalogs' numbering scheme.
func OrderingCodeSuffix(code string) string {
	code = strings.ReplaceAll(code, " ", "")
	if len(code) < 2 {
		return ""
	}
	return code[len(code)-2:]
}
