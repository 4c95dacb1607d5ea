package turtle

import (
	"bytes"
	"slices"
	"testing"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

func tripleKeys(ts []rdf.Triple) []string {
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = t.String()
	}
	slices.Sort(keys)
	return keys
}

func TestWriteRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Simple", exPrefix + `ex:alice ex:knows ex:bob . ex:bob ex:name "Bob" .`},
		{"Abbreviated", exPrefix + `
ex:s a ex:Thing ; ex:p ex:o1, ex:o2 ; ex:label "x"@en, "y"^^ex:t .`},
		{"BlankAndCollections", exPrefix + `
ex:s ex:p [ ex:q ( 1 2.5 "three" ) ] .
_:lbl ex:r [] .
[] ex:q _:b0 .`},
		{"Escapes", exPrefix + `ex:s ex:p "quote \" back \\ tab \t nl \n" , """long
text""" .`},
		{"Unprefixed", `<http://other.example/a> <http://other.example/p> <http://other.example/c/> .`},
		{"Base", `@base <http://example.org/> . <a> <b> <c#frag> .`},
		{"NonASCIILocals", exPrefix + `<http://example.org/a×b> ex:p <http://example.org/c·d>, ex:café, <http://example.org/x÷y> .`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := mustParse(t, tt.input)
			var buf bytes.Buffer
			if err := Write(&buf, first.Triples, first.Prefixes); err != nil {
				t.Fatalf("Write: %v", err)
			}
			second, err := Parse(buf.String())
			if err != nil {
				t.Fatalf("reparse: %v\n%s", err, buf.String())
			}
			if !slices.Equal(tripleKeys(first.Triples), tripleKeys(second.Triples)) {
				t.Errorf("round trip changed triples\nwrote:\n%s\nbefore: %v\nafter:  %v",
					buf.String(), tripleKeys(first.Triples), tripleKeys(second.Triples))
			}
		})
	}
}

func TestWriteGrouping(t *testing.T) {
	doc := mustParse(t, exPrefix+`ex:s a ex:T ; ex:p ex:a, ex:b . ex:t ex:p "v" .`)
	var buf bytes.Buffer
	if err := Write(&buf, doc.Triples, doc.Prefixes); err != nil {
		t.Fatal(err)
	}
	want := `@prefix ex: <http://example.org/> .

ex:s a ex:T ;
    ex:p ex:a ,
        ex:b .
ex:t ex:p "v" .
`
	if buf.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTerm(t *testing.T) {
	prefixes := rdf.PrefixMap{"ex": "http://example.org/", "xsd": rdf.XSDNS}
	tests := []struct {
		term rdf.Term
		want string
	}{
		{rdf.NewIRI("http://example.org/a"), "ex:a"},
		{rdf.NewIRI("http://other.example/a"), "<http://other.example/a>"},
		{rdf.NewIRI("http://example.org/a/b"), "<http://example.org/a/b>"},
		{rdf.NewBlank("b3"), "_:b3"},
		{rdf.NewLiteral(`say "hi"`), `"say \"hi\""`},
		{rdf.NewLangLiteral("chat", "FR"), `"chat"@fr`},
		{rdf.NewTypedLiteral("1", rdf.XSDInteger), `"1"^^xsd:integer`},
		{rdf.NewTypedLiteral("1", "http://dt.example/t"), `"1"^^<http://dt.example/t>`},
	}
	for _, tt := range tests {
		if got := FormatTerm(tt.term, prefixes); got != tt.want {
			t.Errorf("FormatTerm(%v) = %s, want %s", tt.term, got, tt.want)
		}
	}
}

func TestEscapeIRI(t *testing.T) {
	if got := escapeIRI("http://x/a b"); got != `http://x/a\u0020b` {
		t.Errorf("escapeIRI = %q", got)
	}
	doc := mustParse(t, `<http://x/a\u0020b> <http://x/p> <http://x/o> .`)
	if got := doc.Triples[0].Subject.Value; got != "http://x/a b" {
		t.Errorf("unescaped subject = %q", got)
	}
}
