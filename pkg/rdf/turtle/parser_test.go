package turtle

import (
	"errors"
	"strings"
	"testing"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

const exPrefix = "@prefix ex: <http://example.org/> .\n"

func mustParse(t *testing.T, text string, opts ...Option) *Document {
	t.Helper()
	doc, err := Parse(text, opts...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func iri(local string) rdf.Term { return rdf.NewIRI("http://example.org/" + local) }

func TestParseKnowsScenario(t *testing.T) {
	doc := mustParse(t, exPrefix+`
ex:alice ex:knows ex:bob .
ex:bob ex:name "Bob" .
`)
	want := []rdf.Triple{
		{Subject: iri("alice"), Predicate: iri("knows"), Object: iri("bob")},
		{Subject: iri("bob"), Predicate: iri("name"), Object: rdf.NewLiteral("Bob")},
	}
	if len(doc.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d", len(doc.Triples), len(want))
	}
	for i := range want {
		if doc.Triples[i] != want[i] {
			t.Errorf("triple %d = %v, want %v", i, doc.Triples[i], want[i])
		}
	}
	if ns, _ := doc.Prefixes.Get("ex"); ns != "http://example.org/" {
		t.Errorf("prefix ex = %q", ns)
	}
}

func TestParseUnterminatedLiteral(t *testing.T) {
	_, err := Parse(exPrefix + `ex:a ex:knows "unterminated`)
	var se *tserrors.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 2 || se.Column != 15 {
		t.Errorf("position = %d:%d, want 2:15", se.Line, se.Column)
	}
	if !strings.Contains(se.Message, "unterminated string") {
		t.Errorf("message = %q", se.Message)
	}
	if !tserrors.Is(err, tserrors.ErrCodeSyntax) {
		t.Errorf("code = %q, want %q", tserrors.GetCode(err), tserrors.ErrCodeSyntax)
	}
}

func TestParseUnknownPrefix(t *testing.T) {
	_, err := Parse("ex:a ex:b ex:c .\n" + exPrefix)
	var se *tserrors.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 1 || se.Column != 1 {
		t.Errorf("position = %d:%d, want 1:1", se.Line, se.Column)
	}
	if !strings.Contains(se.Message, `unknown prefix "ex"`) {
		t.Errorf("message = %q", se.Message)
	}
}

func TestParsePrefixRedeclaration(t *testing.T) {
	doc := mustParse(t, `
@prefix ex: <http://a.example/> .
ex:x ex:p ex:y .
PREFIX ex: <http://b.example/>
ex:x ex:p ex:y .
`)
	if got := doc.Triples[0].Subject.Value; got != "http://a.example/x" {
		t.Errorf("first subject = %q", got)
	}
	if got := doc.Triples[1].Subject.Value; got != "http://b.example/x" {
		t.Errorf("second subject = %q", got)
	}
	if ns, _ := doc.Prefixes.Get("ex"); ns != "http://b.example/" {
		t.Errorf("final prefix = %q, want last declaration", ns)
	}
}

func TestParseAbbreviations(t *testing.T) {
	doc := mustParse(t, exPrefix+`
ex:s a ex:Thing ;
     ex:p ex:o1 , ex:o2 ;
     ex:q "x" ; .
`)
	want := []rdf.Triple{
		{Subject: iri("s"), Predicate: rdf.NewIRI(rdf.RDFType), Object: iri("Thing")},
		{Subject: iri("s"), Predicate: iri("p"), Object: iri("o1")},
		{Subject: iri("s"), Predicate: iri("p"), Object: iri("o2")},
		{Subject: iri("s"), Predicate: iri("q"), Object: rdf.NewLiteral("x")},
	}
	if len(doc.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d", len(doc.Triples), len(want))
	}
	for i := range want {
		if doc.Triples[i] != want[i] {
			t.Errorf("triple %d = %v, want %v", i, doc.Triples[i], want[i])
		}
	}
}

func TestParseCollections(t *testing.T) {
	doc := mustParse(t, exPrefix+`ex:s ex:p ( 1 ex:two ) .`)
	first, rest, nilIRI := rdf.NewIRI(rdf.RDFFirst), rdf.NewIRI(rdf.RDFRest), rdf.NewIRI(rdf.RDFNil)
	b0, b1 := rdf.NewBlank("b0"), rdf.NewBlank("b1")
	want := []rdf.Triple{
		{Subject: b0, Predicate: first, Object: rdf.NewTypedLiteral("1", rdf.XSDInteger)},
		{Subject: b0, Predicate: rest, Object: b1},
		{Subject: b1, Predicate: first, Object: iri("two")},
		{Subject: b1, Predicate: rest, Object: nilIRI},
		{Subject: iri("s"), Predicate: iri("p"), Object: b0},
	}
	if len(doc.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d: %v", len(doc.Triples), len(want), doc.Triples)
	}
	for i := range want {
		if doc.Triples[i] != want[i] {
			t.Errorf("triple %d = %v, want %v", i, doc.Triples[i], want[i])
		}
	}

	empty := mustParse(t, exPrefix+`ex:s ex:p () .`)
	if len(empty.Triples) != 1 || empty.Triples[0].Object != nilIRI {
		t.Errorf("empty collection = %v, want single rdf:nil object", empty.Triples)
	}

	subj := mustParse(t, exPrefix+`( ex:a ) ex:p ex:o .`)
	if len(subj.Triples) != 3 || subj.Triples[2].Subject != rdf.NewBlank("b0") {
		t.Errorf("collection subject = %v", subj.Triples)
	}
}

func TestParseBlankPropertyLists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []rdf.Triple
	}{
		{
			name:  "Object",
			input: `ex:s ex:p [ ex:q "x" ] .`,
			want: []rdf.Triple{
				{Subject: rdf.NewBlank("b0"), Predicate: iri("q"), Object: rdf.NewLiteral("x")},
				{Subject: iri("s"), Predicate: iri("p"), Object: rdf.NewBlank("b0")},
			},
		},
		{
			name:  "StandaloneSubject",
			input: `[ ex:q ex:o ] .`,
			want: []rdf.Triple{
				{Subject: rdf.NewBlank("b0"), Predicate: iri("q"), Object: iri("o")},
			},
		},
		{
			name:  "SubjectWithPredicates",
			input: `[ ex:q ex:o ] ex:r ex:t .`,
			want: []rdf.Triple{
				{Subject: rdf.NewBlank("b0"), Predicate: iri("q"), Object: iri("o")},
				{Subject: rdf.NewBlank("b0"), Predicate: iri("r"), Object: iri("t")},
			},
		},
		{
			name:  "EmptyBrackets",
			input: `[] ex:p ex:o .`,
			want: []rdf.Triple{
				{Subject: rdf.NewBlank("b0"), Predicate: iri("p"), Object: iri("o")},
			},
		},
		{
			name:  "Nested",
			input: `ex:s ex:p [ ex:q [ ex:r ex:o ] ] .`,
			want: []rdf.Triple{
				{Subject: rdf.NewBlank("b1"), Predicate: iri("r"), Object: iri("o")},
				{Subject: rdf.NewBlank("b0"), Predicate: iri("q"), Object: rdf.NewBlank("b1")},
				{Subject: iri("s"), Predicate: iri("p"), Object: rdf.NewBlank("b0")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, exPrefix+tt.input)
			if len(doc.Triples) != len(tt.want) {
				t.Fatalf("got %d triples, want %d: %v", len(doc.Triples), len(tt.want), doc.Triples)
			}
			for i := range tt.want {
				if doc.Triples[i] != tt.want[i] {
					t.Errorf("triple %d = %v, want %v", i, doc.Triples[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseLiterals(t *testing.T) {
	doc := mustParse(t, exPrefix+`
ex:s ex:p 42, -1.5, 1e3, 2.E-1, true, "chat"@FR-ca, "7"^^ex:t, 'single', """multi
line""", "esc\té" .
`)
	want := []rdf.Term{
		rdf.NewTypedLiteral("42", rdf.XSDInteger),
		rdf.NewTypedLiteral("-1.5", rdf.XSDDecimal),
		rdf.NewTypedLiteral("1e3", rdf.XSDDouble),
		rdf.NewTypedLiteral("2.E-1", rdf.XSDDouble),
		rdf.NewTypedLiteral("true", rdf.XSDBoolean),
		{Kind: rdf.KindLiteral, Value: "chat", Lang: "fr-ca"},
		rdf.NewTypedLiteral("7", "http://example.org/t"),
		rdf.NewLiteral("single"),
		rdf.NewLiteral("multi\nline"),
		rdf.NewLiteral("esc\té"),
	}
	if len(doc.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d", len(doc.Triples), len(want))
	}
	for i, w := range want {
		if got := doc.Triples[i].Object; got != w {
			t.Errorf("object %d = %v, want %v", i, got, w)
		}
	}
}

func TestParseTrailingDotInName(t *testing.T) {
	doc := mustParse(t, exPrefix+`ex:a ex:p ex:b.`)
	if got := doc.Triples[0].Object; got != iri("b") {
		t.Errorf("object = %v, want ex:b", got)
	}
}

func TestParseBase(t *testing.T) {
	doc := mustParse(t, `@base <http://example.org/dir/> .
<a> <b> <../c> .
BASE <sub/>
<d> <#e> <> .
`)
	want := []rdf.Triple{
		{
			Subject:   rdf.NewIRI("http://example.org/dir/a"),
			Predicate: rdf.NewIRI("http://example.org/dir/b"),
			Object:    rdf.NewIRI("http://example.org/c"),
		},
		{
			Subject:   rdf.NewIRI("http://example.org/dir/sub/d"),
			Predicate: rdf.NewIRI("http://example.org/dir/sub/#e"),
			Object:    rdf.NewIRI("http://example.org/dir/sub/"),
		},
	}
	for i := range want {
		if doc.Triples[i] != want[i] {
			t.Errorf("triple %d = %v, want %v", i, doc.Triples[i], want[i])
		}
	}
	if doc.Base != "http://example.org/dir/sub/" {
		t.Errorf("Base = %q", doc.Base)
	}

	seeded := mustParse(t, `<a> <b> <c> .`, WithBase("http://seed.example/x/"))
	if got := seeded.Triples[0].Subject.Value; got != "http://seed.example/x/a" {
		t.Errorf("seeded subject = %q", got)
	}

	unresolved := mustParse(t, `<a> <b> <c> .`)
	if got := unresolved.Triples[0].Subject.Value; got != "a" {
		t.Errorf("subject without base = %q, want unchanged", got)
	}
}

func TestResolveIRI(t *testing.T) {
	const base = "http://a/b/c/d;p?q"
	tests := map[string]string{
		"g:h":        "g:h",
		"g":          "http://a/b/c/g",
		"./g":        "http://a/b/c/g",
		"g/":         "http://a/b/c/g/",
		"/g":         "http://a/g",
		"//g":        "http://g",
		"?y":         "http://a/b/c/d;p?y",
		"g?y":        "http://a/b/c/g?y",
		"#s":         "http://a/b/c/d;p?q#s",
		"g#s":        "http://a/b/c/g#s",
		"":           "http://a/b/c/d;p?q",
		".":          "http://a/b/c/",
		"./":         "http://a/b/c/",
		"..":         "http://a/b/",
		"../":        "http://a/b/",
		"../g":       "http://a/b/g",
		"../..":      "http://a/",
		"../../g":    "http://a/g",
		"../../../g": "http://a/g",
		"/./g":       "http://a/g",
		"g.":         "http://a/b/c/g.",
		"./g/.":      "http://a/b/c/g/",
		"g/../h":     "http://a/b/c/h",
	}
	for ref, want := range tests {
		if got := resolveIRI(base, ref); got != want {
			t.Errorf("resolveIRI(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestParseBlankNodeIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // subject id, object id per triple
	}{
		{
			name:  "LabelKept",
			input: `_:x ex:p _:x .`,
			want:  []string{"x", "x"},
		},
		{
			name:  "AnonymousSkipsTakenLabel",
			input: `_:b0 ex:p [] .`,
			want:  []string{"b0", "b1"},
		},
		{
			name:  "LabelCollidesWithGenerated",
			input: `[] ex:p _:b0 .`,
			want:  []string{"b0", "b0_1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, exPrefix+tt.input)
			tr := doc.Triples[0]
			if tr.Subject.Value != tt.want[0] || tr.Object.Value != tt.want[1] {
				t.Errorf("ids = %q, %q, want %q, %q", tr.Subject.Value, tr.Object.Value, tt.want[0], tt.want[1])
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	text := exPrefix + `ex:s ex:p [ ex:q ( 1 2 [] ) ], _:lbl .`
	a := mustParse(t, text)
	b := mustParse(t, text)
	if len(a.Triples) != len(b.Triples) {
		t.Fatalf("triple counts differ: %d vs %d", len(a.Triples), len(b.Triples))
	}
	for i := range a.Triples {
		if a.Triples[i] != b.Triples[i] {
			t.Errorf("triple %d differs: %v vs %v", i, a.Triples[i], b.Triples[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"UnterminatedIRI", `<http://example.org/a ex:p ex:o .`, "unterminated IRI"},
		{"InvalidIRIChar", `<http://example.org/a b> ex:p ex:o .`, "invalid character"},
		{"LiteralSubject", `"x" ex:p ex:o .`, "cannot be a subject"},
		{"LiteralPredicate", `ex:s "p" ex:o .`, "cannot be a predicate"},
		{"BlankPredicate", `ex:s _:p ex:o .`, "blank node cannot be a predicate"},
		{"MissingDot", `ex:s ex:p ex:o`, "unexpected end of input"},
		{"UnbalancedBracket", `ex:s ex:p [ ex:q ex:o .`, "expected ']'"},
		{"UnbalancedParen", `ex:s ex:p ( ex:a `, "unbalanced '('"},
		{"InvalidEscape", `ex:s ex:p "a\qb" .`, "invalid escape"},
		{"MissingObject", `ex:s ex:p .`, "expected object"},
		{"BareWord", `ex:s ex:p foo .`, "unexpected word"},
		{"BadExponent", `ex:s ex:p 1e .`, "malformed exponent"},
		{"BadDatatype", `ex:s ex:p "x"^^"y" .`, "expected datatype IRI"},
		{"UnknownDirective", `@foo <http://x/> .`, "unknown directive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(exPrefix + tt.input)
			if doc != nil {
				t.Errorf("expected no document on error")
			}
			var se *tserrors.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SyntaxError", err)
			}
			if se.Line < 1 || se.Column < 1 {
				t.Errorf("position = %d:%d, want 1-based", se.Line, se.Column)
			}
			if !strings.Contains(se.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", se.Message, tt.wantMsg)
			}
		})
	}
}

func TestParseMaxTriples(t *testing.T) {
	_, err := Parse(exPrefix+`ex:a ex:p ex:b, ex:c .`, WithMaxTriples(1))
	var le *tserrors.SizeLimitError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want *SizeLimitError", err)
	}
	if le.Kind != tserrors.LimitTriples || le.Limit != 1 {
		t.Errorf("limit error = %+v", le)
	}
}

func TestParseCommentsAndEmpty(t *testing.T) {
	doc := mustParse(t, "# just a comment\n"+exPrefix+"ex:a ex:p ex:b . # trailing\n")
	if len(doc.Triples) != 1 {
		t.Errorf("got %d triples, want 1", len(doc.Triples))
	}

	empty := mustParse(t, exPrefix)
	if len(empty.Triples) != 0 {
		t.Errorf("prefix-only document has %d triples", len(empty.Triples))
	}
}

func TestParseByteOrderMark(t *testing.T) {
	doc := mustParse(t, "\uFEFF"+exPrefix+"ex:a ex:p ex:b .\n")
	if len(doc.Triples) != 1 || doc.Triples[0].Subject != iri("a") {
		t.Errorf("triples = %v", doc.Triples)
	}
}

func TestParseUnterminatedIRIPosition(t *testing.T) {
	_, err := Parse("<http://example.org/a ex:p ex:o .")
	var se *tserrors.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	// Reported where the IRI opens.
	if se.Line != 1 || se.Column != 1 || se.Message != "unterminated IRI" {
		t.Errorf("got %d:%d %q", se.Line, se.Column, se.Message)
	}
}
