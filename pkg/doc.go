// Package pkg provides the core libraries for TurtlyScope RDF visualization.
//
// # Overview
//
// TurtlyScope turns RDF Turtle documents into node-link diagrams: subjects and
// objects become nodes, predicates become labeled edges, and a deterministic
// force-directed layout places everything on a plane. The pkg directory is
// organized into four areas:
//
//  1. [rdf] and [rdf/turtle] - RDF terms, triples and the Turtle parser/writer
//  2. [graph], [layout], [payload] - Domain logic (graph building, layout, serialization)
//  3. [render] - DOT generation and Graphviz rendering (SVG, PNG, PDF)
//  4. [pipeline] - Orchestration (parse → build → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Turtle text
//	     ↓
//	[rdf/turtle] package (parse into triples + prefixes)
//	     ↓
//	[graph] package (nodes, edges, literal handling, communities)
//	     ↓
//	[layout] package (seeded force simulation, component packing, edge routing)
//	     ↓
//	[payload] package (JSON node-link document)
//	     ↓
//	[render] package (DOT → SVG/PNG/PDF)
//
// # Quick Start
//
// Run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, text, pipeline.Options{
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    var se *errors.SyntaxError
//	    if stderrors.As(err, &se) {
//	        fmt.Printf("line %d, column %d: %s\n", se.Line, se.Column, se.Message)
//	    }
//	    return err
//	}
//	os.WriteFile("out.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// Or call the stages directly:
//
//	doc, _ := turtle.Parse(text)
//	g := graph.Build(doc.Triples, doc.Prefixes, graph.Options{})
//	l := layout.Compute(ctx, g, layout.DefaultConfig())
//	p := payload.Serialize(g, l)
//	dot := render.ToDOT(p, render.Theme{})
//
// # Main Packages
//
// [rdf/turtle] - Turtle 1.1 lexer and recursive-descent parser. Reports
// syntax errors with line and column; writes triples back as normalized
// Turtle.
//
// [graph] - Directed multigraph of RDF terms. Literals can become nodes,
// fold into node attributes or be dropped. [graph/community] detects
// communities (Louvain, label propagation, greedy modularity).
//
// [layout] - Fruchterman-Reingold style layout, seeded and reproducible.
// Cancellation yields a partial layout instead of an error.
//
// [payload] - The JSON document web viewers consume: positioned nodes with
// hover titles, routed edges, bounds and statistics.
//
// [render] - Graphviz DOT output with pinned positions, plus SVG, PNG and
// PDF through go-graphviz.
//
// # Infrastructure
//
// [pipeline] - Stage functions and a caching [pipeline.Runner] shared by the
// CLI and the HTTP server.
//
// [cache] - Content-addressed cache with file, Redis, MongoDB and null
// backends.
//
// [config] - Settings loaded from TOML or YAML files plus TURTLYSCOPE_*
// environment variables, validated with struct tags.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [errors] - Coded errors, syntax errors with positions and size limit
// errors, mapped to HTTP status codes.
//
// # Testing
//
// Run tests:
//
//	go test ./...                         # All tests
//	go test ./pkg/rdf/...                 # Specific package
//	go test -run Example ./pkg/...        # Examples only
//	TURTLYSCOPE_REDIS_ADDR=localhost:6379 go test ./pkg/cache/   # Redis backend
//
// [rdf]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/rdf
// [rdf/turtle]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/rdf/turtle
// [graph]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/graph
// [graph/community]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/graph/community
// [layout]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/layout
// [payload]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/payload
// [render]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/cache
// [config]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/config
// [observability]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/observability
// [errors]: https://pkg.go.dev/github.com/turtlyscope/turtlyscope/pkg/errors
package pkg
