// Package turtle parses and writes RDF 1.1 Turtle.
//
// [Parse] turns a Turtle document into a flat list of [rdf.Triple] values
// plus the prefix map that was in effect at the end of the document. The
// parser is a hand-written recursive descent over a rune lexer and supports
// the full abbreviated syntax:
//
//   - ';' and ',' predicate and object lists
//   - 'a' for rdf:type
//   - blank node property lists "[ ... ]" and collections "( ... )"
//   - @prefix, @base and their SPARQL-style forms
//   - numeric and boolean shorthand literals
//
// Errors are reported as *errors.SyntaxError with a 1-based line and column.
// The whole parse fails on the first error.
//
// # Blank nodes
//
// Anonymous blank nodes are numbered b0, b1, ... in the order they are
// opened. Labeled nodes ("_:x") keep their label as id unless it is already
// in use, in which case a numeric suffix is appended. The numbering depends
// only on the text, so parsing the same document twice yields identical
// triples.
//
// # Writing
//
// [Write] emits Turtle with grouped subjects and labeled blank nodes.
// Parsing the output reproduces the same triples.
package turtle
