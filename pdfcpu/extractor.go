// Package pdfcpu extracts page text from PDF files using github.com/pdfcpu/pdfcpu.
//
// pdfcpu decodes and validates the file and hands back each page's content
// stream; text is recovered by scanning the text-showing operators of that
// stream. It serves as a fallback for files the primary extractor cannot
// read.
package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/specsheet"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var _ specsheet.TextExtractor = (*Extractor)(nil)

// kernSpace is the TJ displacement, in thousandths of an em, treated as a word break.
const kernSpace = -200

// Extractor implements specsheet.TextExtractor on pdfcpu content streams.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads and validates the PDF at path and scans every page.
func (e *Extractor) Extract(ctx context.Context, path string) (*specsheet.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, specsheet.Errorf(specsheet.EINVALID, "empty PDF %s", filepath.Base(path))
	}

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	doc := &specsheet.Document{
		Path: path,
		Name: filepath.Base(path),
		Hash: specsheet.ContentHash(data),
	}
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, specsheet.Page{
			Number: pageNr,
			Text:   pageText(pctx, pageNr),
		})
	}
	return doc, nil
}

func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return StreamText(data)
}

// StreamText recovers text from a decoded page content stream. Text-showing
// operators (Tj, TJ, ', ") contribute their strings; line moves (Td/TD with
// a vertical offset, T*, Tm with a new baseline) start a new line.
func StreamText(data []byte) string {
	var (
		b        strings.Builder
		operands []operand
		lastTmY  *float64
	)

	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	space := func() {
		s := b.String()
		if s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			b.WriteByte(' ')
		}
	}

	sc := &scanner{data: data}
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind != opKind {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			writeStrings(&b, operands)
		case "'", "\"":
			newline()
			writeStrings(&b, operands)
		case "TJ":
			for _, o := range operands {
				switch o.kind {
				case stringKind:
					b.WriteString(o.text)
				case numberKind:
					if o.num <= kernSpace {
						space()
					}
				}
			}
		case "Td", "TD":
			if n := len(operands); n >= 2 && operands[n-1].kind == numberKind && operands[n-1].num != 0 {
				newline()
			} else {
				space()
			}
		case "T*":
			newline()
		case "Tm":
			if n := len(operands); n >= 6 && operands[n-1].kind == numberKind {
				y := operands[n-1].num
				if lastTmY != nil && *lastTmY != y {
					newline()
				} else {
					space()
				}
				lastTmY = &y
			}
		case "ET":
			space()
		}
		operands = operands[:0]
	}

	return specsheet.NormalizeText(b.String())
}

func writeStrings(b *strings.Builder, operands []operand) {
	for _, o := range operands {
		if o.kind == stringKind {
			b.WriteString(o.text)
		}
	}
}

type tokenKind int

const (
	opKind tokenKind = iota
	stringKind
	numberKind
	otherKind
)

type operand struct {
	kind tokenKind
	text string
	num  float64
}

// scanner tokenizes a PDF content stream. Array brackets are dropped so
// the elements of a TJ array become plain operands.
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) next() (operand, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c) || c == '[' || c == ']':
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			return operand{kind: stringKind, text: s.literal()}, true
		case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
			s.pos += 2
			return operand{kind: otherKind, text: "<<"}, true
		case c == '>' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '>':
			s.pos += 2
			return operand{kind: otherKind, text: ">>"}, true
		case c == '<':
			return operand{kind: stringKind, text: s.hex()}, true
		case c == '/':
			start := s.pos
			s.pos++
			for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
				s.pos++
			}
			return operand{kind: otherKind, text: string(s.data[start:s.pos])}, true
		default:
			start := s.pos
			for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
				s.pos++
			}
			if s.pos == start {
				s.pos++
				continue
			}
			word := string(s.data[start:s.pos])
			if f, err := strconv.ParseFloat(word, 64); err == nil {
				return operand{kind: numberKind, text: word, num: f}, true
			}
			return operand{kind: opKind, text: word}, true
		}
	}
	return operand{}, false
}

// literal reads a balanced (...) string and resolves escape sequences.
// Bytes are mapped to runes one to one.
func (s *scanner) literal() string {
	var b strings.Builder
	depth := 0
	s.pos++ // opening paren
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return b.String()
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					b.WriteRune(rune(val & 0xff))
				} else {
					b.WriteRune(rune(e))
				}
			}
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			if depth == 0 {
				return b.String()
			}
			depth--
			b.WriteByte(c)
		default:
			// Latin-1 approximation of the simple font encodings.
			b.WriteRune(rune(c))
		}
	}
	return b.String()
}

// hex reads a <...> string. Two-byte sequences are decoded as UTF-16BE
// when the string starts with a byte order mark, otherwise as Latin-1.
func (s *scanner) hex() string {
	s.pos++ // opening angle
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // closing angle
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(v))
	}
	if len(raw) >= 2 && raw[0] == 0xfe && raw[1] == 0xff {
		var b strings.Builder
		for i := 2; i+1 < len(raw); i += 2 {
			b.WriteRune(rune(raw[i])<<8 | rune(raw[i+1]))
		}
		return b.String()
	}
	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
