// Package graph folds RDF triples into a deduplicated node/edge model.
//
// # Model
//
// A [Graph] is an arena: nodes and edges are stored in insertion-ordered
// slices and edges reference nodes by integer index. Nothing holds a pointer
// to another node, so a Graph can be copied, serialized and shared between
// goroutines without cycles.
//
// Node identity follows RDF term identity (see [NodeID]):
//
//	http://example.org/alice                           IRI, by resolved string
//	_:b0                                               blank node, per document
//	"1"^^<http://www.w3.org/2001/XMLSchema#integer>    literal, by value+datatype+lang
//
// Identical literals used by several triples collapse to one node.
//
// # Literals
//
// [Options.Literals] selects one of three policies:
//
//	LiteralsAsNodes   literal objects are leaf nodes (default)
//	LiteralsInline    literal triples become node Attributes
//	LiteralsHidden    literal triples are dropped
//
// # Labels
//
// Labels use the document's prefixes ("ex:alice"), falling back to "<iri>".
// Literals render as "v", "v"@lang or "v"^^xsd:integer. With
// [Options.DefaultPrefixes] the rdf, rdfs, xsd and owl prefixes are available
// even when the document does not declare them.
//
// # Serialization
//
// Graphs round-trip through JSON:
//
//	data, _ := graph.MarshalGraph(g)         // Graph → []byte
//	g2, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//	graph.WriteGraphFile(g, "graph.json")    // Graph → File
//
// # Concurrency
//
// A Graph is immutable after [Build] returns and safe for concurrent reads.
package graph
