package parse

import (
	"regexp"
	"sort"
	"strings"
)

// labelPattern compiles a case-insensitive matcher for a row label given in
// one or more languages, e.g. "Bemessungsstrom / Rated current:". The match
// covers the label and its trailing separators so the remainder of the line
// is the value region.
func labelPattern(names ...string) *regexp.Regexp {
	sorted := append([]string(nil), names...)
	// Longest first so "power frequency" is not read as "power".
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, n := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(n), " ", `\s*`)
	}
	alt := "(?:" + strings.Join(quoted, "|") + ")"
	return regexp.MustCompile(`(?i)^` + alt + `(?:\s*[/|]\s*` + alt + `)*(?:\s*:)?\s*`)
}

// splitLabel returns the value region following a label on line.
func splitLabel(re *regexp.Regexp, line string) (string, bool) {
	loc := re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	region := strings.TrimSpace(line[loc[1]:])
	if region == "" || strings.HasPrefix(region, "(") {
		return "", false
	}
	// The label must end on a word boundary.
	if loc[1] < len(line) && loc[1] > 0 && isWordByte(line[loc[1]-1]) && isWordByte(line[loc[1]]) {
		return "", false
	}
	return region, true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// genericLabel splits a line into its leading words and the value region
// starting at the first numeric token. ok is false if either part is empty.
func genericLabel(line string) (label, region string, ok bool) {
	toks := strings.Fields(line)
	for i, tok := range toks {
		if startsValue(tok) {
			if i == 0 {
				return "", "", false
			}
			return strings.Join(toks[:i], " "), strings.Join(toks[i:], " "), true
		}
	}
	return "", "", false
}

func startsValue(tok string) bool {
	tok = strings.TrimLeft(tok, "+-<>≤≥=")
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}

// lineAt returns the bounds of the line of text containing offset.
func lineAt(text string, offset int) (start, end int) {
	start = strings.LastIndexByte(text[:offset], '\n') + 1
	end = strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		return start, len(text)
	}
	return start, offset + end
}
