package layout

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
)

const exPrefix = "@prefix ex: <http://example.org/> .\n"

const clusters = exPrefix + `
ex:a1 ex:p ex:a2 , ex:a3 . ex:a2 ex:p ex:a3 .
ex:b1 ex:p ex:b2 . ex:b2 ex:p ex:b3 . ex:b3 ex:p ex:b4 .
ex:c1 ex:p ex:c2 .
ex:d1 ex:p ex:d1 .
`

func mustGraph(t *testing.T, text string) *graph.Graph {
	t.Helper()
	doc, err := turtle.Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return graph.Build(doc.Triples, doc.Prefixes, graph.Options{})
}

func TestComputeDeterministic(t *testing.T) {
	g := mustGraph(t, clusters)
	cfg := DefaultConfig()
	first := Compute(context.Background(), g, cfg)
	for range 3 {
		again := Compute(context.Background(), g, cfg)
		if !slices.Equal(first.Positions, again.Positions) {
			t.Fatalf("positions differ between runs")
		}
		if !slices.Equal(first.Routes, again.Routes) {
			t.Fatalf("routes differ between runs")
		}
	}

	cfg.Seed = 7
	other := Compute(context.Background(), g, cfg)
	if slices.Equal(first.Positions, other.Positions) {
		t.Errorf("different seeds produced identical positions")
	}
}

func TestComputeDisconnectedClustersDoNotOverlap(t *testing.T) {
	g := mustGraph(t, clusters)
	res := Compute(context.Background(), g, DefaultConfig())

	if len(res.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(res.Components))
	}
	if len(res.Positions) != g.NodeCount() {
		t.Fatalf("positions = %d, want %d", len(res.Positions), g.NodeCount())
	}
	boxes := make([]Bounds, len(res.Components))
	for i, comp := range res.Components {
		boxes[i] = boundsOf(res.Positions, comp)
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j]) {
				t.Errorf("component %d %+v overlaps component %d %+v", i, boxes[i], j, boxes[j])
			}
		}
	}
	for i, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("node %d has non-finite position %+v", i, p)
		}
	}
	if res.Bounds.MinX != 0 || res.Bounds.MinY != 0 {
		t.Errorf("packed layout should start at the origin, got %+v", res.Bounds)
	}
}

func TestComputeEdgeLength(t *testing.T) {
	g := mustGraph(t, exPrefix+`ex:a ex:p ex:b .`)
	cfg := DefaultConfig()
	res := Compute(context.Background(), g, cfg)

	a, b := res.Positions[0], res.Positions[1]
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if math.Abs(d-cfg.IdealEdgeLength) > 0.05*cfg.IdealEdgeLength {
		t.Errorf("edge length = %.2f, want about %.0f", d, cfg.IdealEdgeLength)
	}
}

// stopAfter reports cancellation after n calls to Err.
type stopAfter struct {
	context.Context
	n int
}

func (s *stopAfter) Err() error {
	if s.n <= 0 {
		return context.Canceled
	}
	s.n--
	return nil
}

func TestComputeCancellation(t *testing.T) {
	g := mustGraph(t, clusters)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Compute(ctx, g, DefaultConfig())
	if !res.Partial || res.Iterations != 0 {
		t.Errorf("pre-canceled: partial = %v, iterations = %d", res.Partial, res.Iterations)
	}
	if len(res.Positions) != g.NodeCount() || len(res.Routes) != g.EdgeCount() {
		t.Errorf("partial result is incomplete")
	}

	mid := Compute(&stopAfter{Context: context.Background(), n: 5}, g, DefaultConfig())
	if !mid.Partial || mid.Iterations != 5 {
		t.Errorf("mid-run: partial = %v, iterations = %d, want true, 5", mid.Partial, mid.Iterations)
	}
	for i, a := range mid.Components {
		for j := i + 1; j < len(mid.Components); j++ {
			if boundsOf(mid.Positions, a).Overlaps(boundsOf(mid.Positions, mid.Components[j])) {
				t.Errorf("partial layout components %d and %d overlap", i, j)
			}
		}
	}

	full := Compute(context.Background(), g, DefaultConfig())
	if full.Partial || full.Iterations != DefaultIterations {
		t.Errorf("full run: partial = %v, iterations = %d", full.Partial, full.Iterations)
	}
}

func TestComputeDegenerate(t *testing.T) {
	empty := graph.Build(nil, nil, graph.Options{})
	res := Compute(context.Background(), empty, DefaultConfig())
	if len(res.Positions) != 0 || len(res.Components) != 0 || res.Bounds != (Bounds{}) {
		t.Errorf("empty graph result = %+v", res)
	}

	single := mustGraph(t, exPrefix+`ex:a ex:p ex:a .`)
	res = Compute(context.Background(), single, DefaultConfig())
	if res.Positions[0] != (Point{}) {
		t.Errorf("single node at %+v, want origin", res.Positions[0])
	}

	// A zero Config falls back to defaults for forces and spacing.
	pair := mustGraph(t, exPrefix+`ex:a ex:p ex:b .`)
	res = Compute(context.Background(), pair, Config{})
	if res.Iterations != 0 || res.Positions[0] == res.Positions[1] {
		t.Errorf("zero config: iterations = %d, positions = %v", res.Iterations, res.Positions)
	}
}

func TestRoutesParallelEdges(t *testing.T) {
	g := mustGraph(t, exPrefix+`
ex:a ex:r ex:b ; ex:p ex:b ; ex:q ex:b .
ex:b ex:s ex:a .
ex:a ex:solo ex:c .
`)
	routes := Routes(g)
	want := map[string]struct {
		hint RoutingHint
		curv float64
	}{
		"ex:p":    {Straight, 0},
		"ex:q":    {Curve1, 0.25},
		"ex:r":    {Curve2, -0.25},
		"ex:s":    {Curve3, -0.5}, // reversed direction flips the bend
		"ex:solo": {Straight, 0},
	}
	for _, e := range g.Edges() {
		w := want[e.Label]
		r := routes[e.Index]
		if r.Hint != w.hint || r.Curvature != w.curv {
			t.Errorf("%s: route = %+v, want %s %v", e.Label, r, w.hint, w.curv)
		}
	}
	if routes[0].Group != routes[3].Group || routes[0].Group == routes[4].Group {
		t.Errorf("groups = %+v", routes)
	}
}

func TestRoutesRepeatedTriple(t *testing.T) {
	g := mustGraph(t, exPrefix+`ex:a ex:knows ex:b . ex:a ex:knows ex:b , ex:b .`)
	routes := Routes(g)
	if len(routes) != 1 || routes[0].Hint != Straight {
		t.Errorf("routes = %+v, want one straight edge", routes)
	}
}

func TestRoutesCycle(t *testing.T) {
	g := mustGraph(t, exPrefix+`ex:a ex:p1 ex:b ; ex:p2 ex:b ; ex:p3 ex:b ; ex:p4 ex:b ; ex:p5 ex:b ; ex:p6 ex:b .`)
	routes := Routes(g)
	wantHints := []RoutingHint{Straight, Curve1, Curve2, Curve3, Curve4, Straight}
	for i, r := range routes {
		if r.Hint != wantHints[i] || r.Position != i {
			t.Errorf("edge %d: %+v, want %s at %d", i, r, wantHints[i], i)
		}
	}
}

func TestGuard(t *testing.T) {
	g := mustGraph(t, clusters)
	tests := []struct {
		name  string
		guard Guard
		kind  string
	}{
		{"Unlimited", Guard{}, ""},
		{"WithinLimits", Guard{MaxNodes: 100, MaxEdges: 100}, ""},
		{"TooManyNodes", Guard{MaxNodes: 3}, tserrors.LimitNodes},
		{"TooManyEdges", Guard{MaxEdges: 2}, tserrors.LimitEdges},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Check(g)
			if tt.kind == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var se *tserrors.SizeLimitError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SizeLimitError", err)
			}
			if se.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", se.Kind, tt.kind)
			}
			if !tserrors.Is(err, tserrors.ErrCodeSizeLimit) {
				t.Errorf("code = %q", tserrors.GetCode(err))
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Default", func(*Config) {}, false},
		{"ZeroIterations", func(c *Config) { c.Iterations = 0 }, false},
		{"NegativeIterations", func(c *Config) { c.Iterations = -1 }, true},
		{"ZeroRepulsion", func(c *Config) { c.Repulsion = 0 }, true},
		{"NegativeAttraction", func(c *Config) { c.Attraction = -1 }, true},
		{"NaNLength", func(c *Config) { c.IdealEdgeLength = math.NaN() }, true},
		{"InfLength", func(c *Config) { c.IdealEdgeLength = math.Inf(1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !tserrors.Is(err, tserrors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q", tserrors.GetCode(err))
			}
		})
	}
}
