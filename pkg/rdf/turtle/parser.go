package turtle

import (
	"fmt"
	"strconv"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// Document is the result of parsing one Turtle text.
type Document struct {
	// Triples in source order. Triples produced by nested blank node property
	// lists and collections precede the triple that references them.
	Triples []rdf.Triple

	// Prefixes holds the final binding of every declared prefix.
	Prefixes rdf.PrefixMap

	// Base is the base IRI in effect at the end of the document.
	Base string
}

// Option configures Parse.
type Option func(*parser)

// WithBase seeds the base IRI used to resolve relative IRI references.
func WithBase(iri string) Option {
	return func(p *parser) { p.base = iri }
}

// WithMaxTriples aborts parsing with a *errors.SizeLimitError once more than
// n triples have been produced. Zero means unlimited.
func WithMaxTriples(n int) Option {
	return func(p *parser) { p.maxTriples = n }
}

// Parse parses Turtle text into triples and a prefix map.
//
// On failure it returns a *errors.SyntaxError carrying the 1-based line and
// column of the offending token, or a *errors.SizeLimitError when the
// triple limit is exceeded. No partial document is returned with an error.
func Parse(text string, opts ...Option) (*Document, error) {
	p := &parser{
		lex:      newLexer(text),
		prefixes: rdf.NewPrefixMap(),
		labels:   make(map[string]string),
		taken:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return &Document{Triples: p.triples, Prefixes: p.prefixes, Base: p.base}, nil
}

type parser struct {
	lex        *lexer
	tok        token
	peeked     bool
	base       string
	prefixes   rdf.PrefixMap
	triples    []rdf.Triple
	maxTriples int

	// labels maps source blank node labels to their assigned ids.
	labels map[string]string
	// taken records every blank node id handed out so far.
	taken   map[string]bool
	counter int
}

func (p *parser) peek() (token, error) {
	if !p.peeked {
		t, err := p.lex.Next()
		if err != nil {
			return t, err
		}
		p.tok, p.peeked = t, true
	}
	return p.tok, nil
}

func (p *parser) next() (token, error) {
	t, err := p.peek()
	p.peeked = false
	return t, err
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t, err := p.next()
	if err != nil {
		return t, err
	}
	if t.kind != kind {
		return t, p.unexpected(t, "expected "+kind.String())
	}
	return t, nil
}

func (p *parser) unexpected(t token, what string) error {
	if t.kind == tokEOF {
		return errorAt(t, "unexpected end of input, %s", what)
	}
	return errorAt(t, "unexpected %s, %s", t.describe(), what)
}

func errorAt(t token, format string, args ...any) error {
	return &tserrors.SyntaxError{Line: t.line, Column: t.col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) emit(s, pred, o rdf.Term) error {
	p.triples = append(p.triples, rdf.Triple{Subject: s, Predicate: pred, Object: o})
	if p.maxTriples > 0 && len(p.triples) > p.maxTriples {
		return &tserrors.SizeLimitError{Kind: tserrors.LimitTriples, Limit: p.maxTriples, Actual: len(p.triples)}
	}
	return nil
}

// =============================================================================
// Blank node identifiers
// =============================================================================

// freshBlank allocates the next anonymous blank node id, skipping ids that
// labeled nodes already hold.
func (p *parser) freshBlank() rdf.Term {
	for {
		id := "b" + strconv.Itoa(p.counter)
		p.counter++
		if !p.taken[id] {
			p.taken[id] = true
			return rdf.NewBlank(id)
		}
	}
}

// labeledBlank returns the node for a "_:label" reference. The label is kept
// as the id when it is free; otherwise a numeric suffix is appended.
func (p *parser) labeledBlank(label string) rdf.Term {
	if id, ok := p.labels[label]; ok {
		return rdf.NewBlank(id)
	}
	id := label
	for n := 1; p.taken[id]; n++ {
		id = label + "_" + strconv.Itoa(n)
	}
	p.taken[id] = true
	p.labels[label] = id
	return rdf.NewBlank(id)
}

// =============================================================================
// Statements
// =============================================================================

func (p *parser) parseDocument() error {
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		switch t.kind {
		case tokEOF:
			return nil
		case tokLangTag:
			if err := p.parseAtDirective(); err != nil {
				return err
			}
		case tokSparqlPrefix:
			p.next()
			if err := p.parsePrefixBody(); err != nil {
				return err
			}
		case tokSparqlBase:
			p.next()
			if err := p.parseBaseBody(); err != nil {
				return err
			}
		default:
			if err := p.parseTriples(); err != nil {
				return err
			}
			if _, err := p.expect(tokDot); err != nil {
				return err
			}
		}
	}
}

// parseAtDirective handles "@prefix" and "@base", both terminated by '.'.
func (p *parser) parseAtDirective() error {
	t, _ := p.next()
	switch t.value {
	case "prefix":
		if err := p.parsePrefixBody(); err != nil {
			return err
		}
	case "base":
		if err := p.parseBaseBody(); err != nil {
			return err
		}
	default:
		return errorAt(t, "unknown directive @%s", t.value)
	}
	_, err := p.expect(tokDot)
	return err
}

func (p *parser) parsePrefixBody() error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t.kind != tokPName || t.value != "" {
		return p.unexpected(t, "expected prefix name ending in ':'")
	}
	iri, err := p.expect(tokIRI)
	if err != nil {
		return err
	}
	p.prefixes.Set(t.prefix, resolveIRI(p.base, iri.value))
	return nil
}

func (p *parser) parseBaseBody() error {
	iri, err := p.expect(tokIRI)
	if err != nil {
		return err
	}
	p.base = resolveIRI(p.base, iri.value)
	return nil
}

// parseTriples parses one subject with its predicate-object list.
func (p *parser) parseTriples() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.kind == tokLBracket {
		p.next()
		subj, empty, err := p.parseBlankPropertyList()
		if err != nil {
			return err
		}
		next, err := p.peek()
		if err != nil {
			return err
		}
		// "[ ex:p ex:o ] ." stands alone; "[] ." does not.
		if next.kind == tokDot && !empty {
			return nil
		}
		return p.parsePredicateObjectList(subj)
	}

	subj, err := p.parseSubject()
	if err != nil {
		return err
	}
	return p.parsePredicateObjectList(subj)
}

func (p *parser) parseSubject() (rdf.Term, error) {
	t, err := p.next()
	if err != nil {
		return rdf.Term{}, err
	}
	switch t.kind {
	case tokIRI, tokPName:
		return p.iriFromToken(t)
	case tokBlankLabel:
		return p.labeledBlank(t.value), nil
	case tokLParen:
		return p.parseCollection()
	case tokString, tokInteger, tokDecimal, tokDouble, tokBoolean:
		return rdf.Term{}, errorAt(t, "literal %s cannot be a subject", t.describe())
	}
	return rdf.Term{}, p.unexpected(t, "expected subject")
}

func (p *parser) parsePredicateObjectList(subj rdf.Term) error {
	for {
		pred, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subj, pred); err != nil {
			return err
		}

		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.kind != tokSemicolon {
			return nil
		}
		// Repeated and trailing ';' are allowed.
		for t.kind == tokSemicolon {
			p.next()
			if t, err = p.peek(); err != nil {
				return err
			}
		}
		if t.kind == tokDot || t.kind == tokRBracket || t.kind == tokEOF {
			return nil
		}
	}
}

func (p *parser) parseVerb() (rdf.Term, error) {
	t, err := p.next()
	if err != nil {
		return rdf.Term{}, err
	}
	switch t.kind {
	case tokA:
		return rdf.NewIRI(rdf.RDFType), nil
	case tokIRI, tokPName:
		return p.iriFromToken(t)
	case tokBlankLabel, tokLBracket:
		return rdf.Term{}, errorAt(t, "blank node cannot be a predicate")
	case tokString, tokInteger, tokDecimal, tokDouble, tokBoolean:
		return rdf.Term{}, errorAt(t, "literal %s cannot be a predicate", t.describe())
	}
	return rdf.Term{}, p.unexpected(t, "expected predicate")
}

func (p *parser) parseObjectList(subj, pred rdf.Term) error {
	for {
		obj, err := p.parseObject()
		if err != nil {
			return err
		}
		if err := p.emit(subj, pred, obj); err != nil {
			return err
		}
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.kind != tokComma {
			return nil
		}
		p.next()
	}
}

func (p *parser) parseObject() (rdf.Term, error) {
	t, err := p.next()
	if err != nil {
		return rdf.Term{}, err
	}
	switch t.kind {
	case tokIRI, tokPName:
		return p.iriFromToken(t)
	case tokBlankLabel:
		return p.labeledBlank(t.value), nil
	case tokLBracket:
		node, _, err := p.parseBlankPropertyList()
		return node, err
	case tokLParen:
		return p.parseCollection()
	case tokString:
		return p.parseLiteralTail(t)
	case tokInteger:
		return rdf.NewTypedLiteral(t.value, rdf.XSDInteger), nil
	case tokDecimal:
		return rdf.NewTypedLiteral(t.value, rdf.XSDDecimal), nil
	case tokDouble:
		return rdf.NewTypedLiteral(t.value, rdf.XSDDouble), nil
	case tokBoolean:
		return rdf.NewTypedLiteral(t.value, rdf.XSDBoolean), nil
	}
	return rdf.Term{}, p.unexpected(t, "expected object")
}

// parseLiteralTail reads an optional language tag or datatype after a string.
func (p *parser) parseLiteralTail(str token) (rdf.Term, error) {
	t, err := p.peek()
	if err != nil {
		return rdf.Term{}, err
	}
	switch t.kind {
	case tokLangTag:
		p.next()
		return rdf.NewLangLiteral(str.value, t.value), nil
	case tokDatatype:
		p.next()
		dt, err := p.next()
		if err != nil {
			return rdf.Term{}, err
		}
		if dt.kind != tokIRI && dt.kind != tokPName {
			return rdf.Term{}, p.unexpected(dt, "expected datatype IRI")
		}
		iri, err := p.iriFromToken(dt)
		if err != nil {
			return rdf.Term{}, err
		}
		return rdf.NewTypedLiteral(str.value, iri.Value), nil
	}
	return rdf.NewLiteral(str.value), nil
}

// parseBlankPropertyList parses the body of "[ ... ]" after the opening
// bracket. It reports whether the list was empty.
func (p *parser) parseBlankPropertyList() (rdf.Term, bool, error) {
	node := p.freshBlank()
	t, err := p.peek()
	if err != nil {
		return node, false, err
	}
	if t.kind == tokRBracket {
		p.next()
		return node, true, nil
	}
	if t.kind == tokEOF {
		return node, false, errorAt(t, "unbalanced '[': unexpected end of input")
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return node, false, err
	}
	t, err = p.next()
	if err != nil {
		return node, false, err
	}
	if t.kind != tokRBracket {
		if t.kind == tokEOF {
			return node, false, errorAt(t, "unbalanced '[': unexpected end of input")
		}
		return node, false, p.unexpected(t, "expected ']'")
	}
	return node, false, nil
}

// parseCollection parses the items of "( ... )" after the opening paren and
// expands them into an rdf:first/rdf:rest chain.
func (p *parser) parseCollection() (rdf.Term, error) {
	var cells, items []rdf.Term
	for {
		t, err := p.peek()
		if err != nil {
			return rdf.Term{}, err
		}
		if t.kind == tokRParen {
			p.next()
			break
		}
		if t.kind == tokEOF {
			return rdf.Term{}, errorAt(t, "unbalanced '(': unexpected end of input")
		}
		cell := p.freshBlank()
		item, err := p.parseObject()
		if err != nil {
			return rdf.Term{}, err
		}
		cells = append(cells, cell)
		items = append(items, item)
	}

	nilTerm := rdf.NewIRI(rdf.RDFNil)
	if len(cells) == 0 {
		return nilTerm, nil
	}
	first, rest := rdf.NewIRI(rdf.RDFFirst), rdf.NewIRI(rdf.RDFRest)
	for i, cell := range cells {
		if err := p.emit(cell, first, items[i]); err != nil {
			return rdf.Term{}, err
		}
		next := nilTerm
		if i+1 < len(cells) {
			next = cells[i+1]
		}
		if err := p.emit(cell, rest, next); err != nil {
			return rdf.Term{}, err
		}
	}
	return cells[0], nil
}

// iriFromToken resolves an IRIREF against the base or expands a prefixed name.
func (p *parser) iriFromToken(t token) (rdf.Term, error) {
	if t.kind == tokIRI {
		return rdf.NewIRI(resolveIRI(p.base, t.value)), nil
	}
	ns, ok := p.prefixes.Get(t.prefix)
	if !ok {
		return rdf.Term{}, errorAt(t, "unknown prefix %q", t.prefix)
	}
	return rdf.NewIRI(ns + t.value), nil
}
