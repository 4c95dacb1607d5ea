package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// LiteralMode selects how literal-valued triples enter the graph.
type LiteralMode string

const (
	// LiteralsAsNodes turns every distinct literal into a leaf node.
	LiteralsAsNodes LiteralMode = "nodes"
	// LiteralsInline folds literal-valued triples into Attributes on the
	// subject node. No literal nodes or edges are created.
	LiteralsInline LiteralMode = "inline"
	// LiteralsHidden drops literal-valued triples. Their subjects still
	// appear as nodes.
	LiteralsHidden LiteralMode = "hidden"
)

// LiteralModes lists the accepted literal modes.
var LiteralModes = []LiteralMode{LiteralsAsNodes, LiteralsInline, LiteralsHidden}

// ParseLiteralMode converts a name into a LiteralMode. The empty string maps
// to LiteralsAsNodes.
func ParseLiteralMode(s string) (LiteralMode, error) {
	switch m := LiteralMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return LiteralsAsNodes, nil
	case LiteralsAsNodes, LiteralsInline, LiteralsHidden:
		return m, nil
	}
	return "", fmt.Errorf("unknown literal mode %q (want nodes, inline or hidden)", s)
}

// Options controls graph construction.
type Options struct {
	Literals LiteralMode

	// DefaultPrefixes adds rdf, rdfs, xsd and owl to the label prefix map
	// when the document does not bind them.
	DefaultPrefixes bool

	// MaxLabelLength truncates literal labels to this many runes.
	// Zero disables truncation. Node identity is never truncated.
	MaxLabelLength int
}

// Build folds triples into a Graph.
//
// Subjects and objects become nodes, deduplicated by NodeID; literals with
// equal (value, datatype, language) share one node. Each distinct triple adds
// exactly one edge unless the literal mode inlines or hides it; a repeated
// (subject, predicate, object) is folded into the first occurrence. Triples
// with a literal subject or a non-IRI predicate are skipped. Build never fails.
func Build(triples []rdf.Triple, prefixes rdf.PrefixMap, opts Options) *Graph {
	labelPrefixes := prefixes.Clone()
	if opts.DefaultPrefixes {
		labelPrefixes = labelPrefixes.WithDefaults()
	}
	g := newGraph(labelPrefixes)
	g.triples = len(triples)
	lb := labeler{prefixes: labelPrefixes, max: opts.MaxLabelLength}
	seen := make(map[tripleKey]struct{}, len(triples))

	for _, t := range triples {
		if !t.Valid() {
			continue
		}
		k := tripleKey{NodeID(t.Subject), t.Predicate.Value, NodeID(t.Object)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		src := g.addNode(t.Subject, lb.term(t.Subject))
		predLabel := lb.iri(t.Predicate.Value)

		if t.Object.IsLiteral() {
			switch opts.Literals {
			case LiteralsHidden:
				continue
			case LiteralsInline:
				n := &g.nodes[src]
				n.Attributes = append(n.Attributes, Attribute{
					Predicate: t.Predicate.Value,
					Label:     predLabel,
					Value:     lb.term(t.Object),
				})
				continue
			}
		}

		dst := g.addNode(t.Object, lb.term(t.Object))
		g.addEdge(src, dst, t.Predicate.Value, predLabel)
	}
	return g
}

type tripleKey struct {
	subject, predicate, object string
}

// =============================================================================
// Labels
// =============================================================================

type labeler struct {
	prefixes rdf.PrefixMap
	max      int
}

// iri returns the prefixed form of an IRI, or "<iri>" when no prefix fits.
func (l labeler) iri(s string) string {
	if c, ok := l.prefixes.Compact(s); ok {
		return c
	}
	return "<" + s + ">"
}

func (l labeler) term(t rdf.Term) string {
	switch t.Kind {
	case rdf.KindIRI:
		return l.iri(t.Value)
	case rdf.KindBlank:
		return "_:" + t.Value
	}
	label := `"` + truncate(t.Value, l.max) + `"`
	switch {
	case t.Lang != "":
		label += "@" + t.Lang
	case t.Datatype != "":
		if c, ok := l.prefixes.Compact(t.Datatype); ok {
			label += "^^" + c
		} else {
			label += "^^<" + t.Datatype + ">"
		}
	}
	return label
}

// Label formats a term the way Build labels nodes.
func Label(t rdf.Term, prefixes rdf.PrefixMap, maxLength int) string {
	return labeler{prefixes: prefixes, max: maxLength}.term(t)
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
