package turtle

import (
	"bufio"
	"io"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// Write serializes triples as Turtle.
//
// Prefix declarations are written first in name order. Consecutive triples
// that share a subject are grouped with ';', and consecutive objects that
// share a subject and predicate with ','. Blank nodes keep their ids as
// "_:id" labels, so parsing the output yields the same terms.
func Write(w io.Writer, triples []rdf.Triple, prefixes rdf.PrefixMap) error {
	bw := bufio.NewWriter(w)
	for _, name := range prefixes.Names() {
		bw.WriteString("@prefix ")
		bw.WriteString(name)
		bw.WriteString(": <")
		bw.WriteString(escapeIRI(prefixes[name]))
		bw.WriteString("> .\n")
	}
	if len(prefixes) > 0 && len(triples) > 0 {
		bw.WriteByte('\n')
	}

	for i, t := range triples {
		switch {
		case i > 0 && t.Subject == triples[i-1].Subject && t.Predicate == triples[i-1].Predicate:
			bw.WriteString(" ,\n        ")
		case i > 0 && t.Subject == triples[i-1].Subject:
			bw.WriteString(" ;\n    ")
			bw.WriteString(formatPredicate(t.Predicate, prefixes))
			bw.WriteByte(' ')
		default:
			if i > 0 {
				bw.WriteString(" .\n")
			}
			bw.WriteString(FormatTerm(t.Subject, prefixes))
			bw.WriteByte(' ')
			bw.WriteString(formatPredicate(t.Predicate, prefixes))
			bw.WriteByte(' ')
		}
		bw.WriteString(FormatTerm(t.Object, prefixes))
	}
	if len(triples) > 0 {
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

func formatPredicate(t rdf.Term, prefixes rdf.PrefixMap) string {
	if t.IsIRI() && t.Value == rdf.RDFType {
		return "a"
	}
	return FormatTerm(t, prefixes)
}

// FormatTerm returns the Turtle spelling of a term, compacting IRIs with
// prefixes when possible.
func FormatTerm(t rdf.Term, prefixes rdf.PrefixMap) string {
	switch t.Kind {
	case rdf.KindIRI:
		if s, ok := prefixes.Compact(t.Value); ok {
			return s
		}
		return "<" + escapeIRI(t.Value) + ">"
	case rdf.KindBlank:
		return "_:" + t.Value
	}

	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(rdf.EscapeString(t.Value))
	b.WriteByte('"')
	switch {
	case t.Lang != "":
		b.WriteByte('@')
		b.WriteString(t.Lang)
	case t.Datatype != "":
		b.WriteString("^^")
		if s, ok := prefixes.Compact(t.Datatype); ok {
			b.WriteString(s)
		} else {
			b.WriteString("<" + escapeIRI(t.Datatype) + ">")
		}
	}
	return b.String()
}

// escapeIRI writes characters that may not appear in an IRIREF as \u escapes.
func escapeIRI(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !validIRIRune(r) }) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if validIRIRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(`\u`)
		const hex = "0123456789ABCDEF"
		for shift := 12; shift >= 0; shift -= 4 {
			b.WriteByte(hex[(r>>uint(shift))&0xf])
		}
	}
	return b.String()
}
