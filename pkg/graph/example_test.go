package graph_test

import (
	"fmt"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
)

func ExampleBuild() {
	doc, _ := turtle.Parse(`
@prefix ex: <http://example.org/> .
ex:alice ex:knows ex:bob .
ex:bob ex:name "Bob" .
`)
	g := graph.Build(doc.Triples, doc.Prefixes, graph.Options{})

	for _, n := range g.Nodes() {
		fmt.Printf("%d %-7s %s\n", n.Index, n.Kind, n.Label)
	}
	for _, e := range g.Edges() {
		fmt.Printf("%d -[%s]-> %d\n", e.Source, e.Label, e.Target)
	}
	// Output:
	// 0 iri     ex:alice
	// 1 iri     ex:bob
	// 2 literal "Bob"
	// 0 -[ex:knows]-> 1
	// 1 -[ex:name]-> 2
}

func ExampleBuild_inlineLiterals() {
	doc, _ := turtle.Parse(`
@prefix ex: <http://example.org/> .
ex:bob ex:name "Bob" ; ex:age 42 .
`)
	g := graph.Build(doc.Triples, doc.Prefixes, graph.Options{
		Literals:        graph.LiteralsInline,
		DefaultPrefixes: true,
	})

	bob, _ := g.Node("http://example.org/bob")
	for _, a := range bob.Attributes {
		fmt.Println(a.Label, "=", a.Value)
	}
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// ex:name = "Bob"
	// ex:age = "42"^^xsd:integer
	// edges: 0
}

func ExampleGraph_Components() {
	doc, _ := turtle.Parse(`
@prefix ex: <http://example.org/> .
ex:a ex:p ex:b .
ex:x ex:p ex:y .
`)
	g := graph.Build(doc.Triples, doc.Prefixes, graph.Options{})
	for _, comp := range g.Components() {
		var labels []string
		for _, i := range comp {
			labels = append(labels, g.NodeAt(i).Label)
		}
		fmt.Println(strings.Join(labels, " "))
	}
	// Output:
	// ex:a ex:b
	// ex:x ex:y
}
