// Package rdf defines the small RDF data model shared by the parser, the graph
// builder and the serializers.
//
// # Terms
//
// A [Term] is a tagged union over the three RDF term kinds:
//
//	rdf.NewIRI("http://example.org/a")          // KindIRI
//	rdf.NewBlank("b0")                          // KindBlank (document scoped)
//	rdf.NewTypedLiteral("1", rdf.XSDInteger)    // KindLiteral
//	rdf.NewLangLiteral("chat", "fr")            // KindLiteral with language
//
// [Term.Key] returns the canonical N-Triples form, which is what the graph
// builder uses as node identity. Two literals with the same value, datatype
// and language therefore share a key.
//
// # Triples
//
// A [Triple] is a (subject, predicate, object) statement. [Triple.Valid]
// enforces the structural rules: subjects are IRIs or blank nodes, predicates
// are always IRIs, objects may be any term.
//
// # Prefixes
//
// [PrefixMap] maps short names to namespace IRIs. It is built while parsing
// and passed explicitly to whoever needs compact labels; there is no global
// namespace registry.
package rdf
