package turtle_test

import (
	"fmt"
	"os"

	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
)

func ExampleParse() {
	doc, err := turtle.Parse(`
@prefix ex: <http://example.org/> .
ex:alice ex:knows ex:bob .
ex:bob ex:name "Bob" .
`)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, t := range doc.Triples {
		fmt.Println(t)
	}
	// Output:
	// <http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .
	// <http://example.org/bob> <http://example.org/name> "Bob" .
}

func ExampleParse_syntaxError() {
	_, err := turtle.Parse("@prefix ex: <http://example.org/> .\nex:a ex:knows \"unterminated")
	fmt.Println(err)
	// Output:
	// syntax error at line 2, column 15: unterminated string literal
}

func ExampleWrite() {
	doc, _ := turtle.Parse(`
@prefix ex: <http://example.org/> .
ex:alice a ex:Person ; ex:knows [ ex:name "Bob" ] .
`)
	_ = turtle.Write(os.Stdout, doc.Triples, doc.Prefixes)
	// Output:
	// @prefix ex: <http://example.org/> .
	//
	// ex:alice a ex:Person .
	// _:b0 ex:name "Bob" .
	// ex:alice ex:knows _:b0 .
}
