package mock

import "github.com/fwojciec/specsheet"

var (
	_ specsheet.Parser         = (*Parser)(nil)
	_ specsheet.ParserRegistry = (*ParserRegistry)(nil)
)

// Parser is a mock implementation of specsheet.Parser.
type Parser struct {
	KindFn  func() specsheet.DocumentKind
	ParseFn func(doc *specsheet.Document) (*specsheet.ParseResult, error)
}

func (p *Parser) Kind() specsheet.DocumentKind {
	return p.KindFn()
}

func (p *Parser) Parse(doc *specsheet.Document) (*specsheet.ParseResult, error) {
	return p.ParseFn(doc)
}

// ParserRegistry is a mock implementation of specsheet.ParserRegistry.
type ParserRegistry struct {
	GetFn      func(kind specsheet.DocumentKind) specsheet.Parser
	RegisterFn func(parser specsheet.Parser)
	ListFn     func() []specsheet.DocumentKind
}

func (r *ParserRegistry) Get(kind specsheet.DocumentKind) specsheet.Parser {
	return r.GetFn(kind)
}

func (r *ParserRegistry) Register(parser specsheet.Parser) {
	r.RegisterFn(parser)
}

func (r *ParserRegistry) List() []specsheet.DocumentKind {
	return r.ListFn()
}
