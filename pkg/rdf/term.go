package rdf

import (
	"fmt"
	"strings"
)

// TermKind discriminates the three RDF term kinds.
type TermKind int

const (
	// KindIRI is a resolved IRI reference.
	KindIRI TermKind = iota
	// KindBlank is a document-scoped anonymous resource.
	KindBlank
	// KindLiteral is a data value with optional datatype or language tag.
	KindLiteral
)

// String returns the wire name of the kind ("iri", "blank", "literal").
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", int(k))
	}
}

// Term is a single RDF term.
//
// For IRIs Value holds the resolved IRI, for blank nodes the synthetic
// identifier (without the "_:" prefix), and for literals the lexical form.
// Datatype and Lang are only meaningful for literals; at most one of them is
// set. A language-tagged literal has an empty Datatype (rdf:langString is
// implied).
type Term struct {
	Kind     TermKind `json:"kind"`
	Value    string   `json:"value"`
	Datatype string   `json:"datatype,omitempty"`
	Lang     string   `json:"lang,omitempty"`
}

// NewIRI returns an IRI term.
func NewIRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// NewBlank returns a blank node term with the given document-scoped id.
func NewBlank(id string) Term { return Term{Kind: KindBlank, Value: id} }

// NewLiteral returns a plain literal without datatype or language.
func NewLiteral(value string) Term { return Term{Kind: KindLiteral, Value: value} }

// NewTypedLiteral returns a literal with an explicit datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged literal. Language tags are
// compared case-insensitively, so the tag is stored lower-cased.
func NewLangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// Key returns the canonical identity of the term in N-Triples form.
//
//	<http://example.org/a>
//	_:b0
//	"1"^^<http://www.w3.org/2001/XMLSchema#integer>
//	"chat"@fr
//
// Literals with equal (value, datatype, language) share a key.
func (t Term) Key() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		var b strings.Builder
		b.WriteByte('"')
		b.WriteString(EscapeString(t.Value))
		b.WriteByte('"')
		switch {
		case t.Lang != "":
			b.WriteByte('@')
			b.WriteString(t.Lang)
		case t.Datatype != "":
			b.WriteString("^^<")
			b.WriteString(t.Datatype)
			b.WriteByte('>')
		}
		return b.String()
	}
}

// String returns the N-Triples form of the term.
func (t Term) String() string { return t.Key() }

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term `json:"s"`
	Predicate Term `json:"p"`
	Object    Term `json:"o"`
}

// Valid reports whether the triple is structurally well-formed: the subject
// is an IRI or blank node and the predicate is an IRI.
func (t Triple) Valid() bool {
	if t.Subject.Kind == KindLiteral {
		return false
	}
	return t.Predicate.Kind == KindIRI
}

// String returns the triple as an N-Triples line without the trailing newline.
func (t Triple) String() string {
	return t.Subject.Key() + " " + t.Predicate.Key() + " " + t.Object.Key() + " ."
}

// EscapeString escapes a literal lexical form for inclusion between double
// quotes in N-Triples or Turtle output.
func EscapeString(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
