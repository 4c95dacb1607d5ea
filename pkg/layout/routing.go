package layout

import (
	"cmp"
	"slices"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
)

// RoutingHint tells the renderer how to draw an edge.
type RoutingHint string

const (
	Straight RoutingHint = "straight"
	Curve1   RoutingHint = "curve-1"
	Curve2   RoutingHint = "curve-2"
	Curve3   RoutingHint = "curve-3"
	Curve4   RoutingHint = "curve-4"
)

// Hints is the fixed cycle assigned to edges that share a node pair.
var Hints = []RoutingHint{Straight, Curve1, Curve2, Curve3, Curve4}

var curvatures = map[RoutingHint]float64{
	Straight: 0,
	Curve1:   0.25,
	Curve2:   -0.25,
	Curve3:   0.5,
	Curve4:   -0.5,
}

// Curvature returns the signed bend of a hint as a fraction of edge length.
func (h RoutingHint) Curvature() float64 { return curvatures[h] }

// Route is the routing decision for one edge.
type Route struct {
	Hint RoutingHint `json:"hint" bson:"hint"`

	// Curvature is measured relative to the edge's own direction, so two
	// opposite edges between the same nodes bend to different sides.
	Curvature float64 `json:"curvature" bson:"curvature"`

	// Group and Position identify the edge within its node-pair group.
	Group    int `json:"group" bson:"group"`
	Position int `json:"position" bson:"position"`
}

// Routes assigns routing hints to every edge of g.
//
// Edges are grouped by unordered node pair. Within a group they are ordered
// by predicate label, then direction, then edge index, and the i-th edge
// takes Hints[i mod len(Hints)]. An edge alone in its group is straight.
// Groups are numbered in order of their first edge.
func Routes(g *graph.Graph) []Route {
	edges := g.Edges()
	routes := make([]Route, len(edges))

	type pair struct{ lo, hi int }
	groups := make(map[pair][]int)
	var order []pair
	for _, e := range edges {
		p := pair{min(e.Source, e.Target), max(e.Source, e.Target)}
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], e.Index)
	}

	for gi, p := range order {
		members := groups[p]
		slices.SortFunc(members, func(a, b int) int {
			ea, eb := edges[a], edges[b]
			return cmp.Or(
				cmp.Compare(ea.Label, eb.Label),
				cmp.Compare(reversed(ea, p.lo), reversed(eb, p.lo)),
				cmp.Compare(a, b),
			)
		})
		for pos, ei := range members {
			hint := Straight
			if len(members) > 1 {
				hint = Hints[pos%len(Hints)]
			}
			curv := hint.Curvature()
			if reversed(edges[ei], p.lo) == 1 {
				curv = -curv
			}
			routes[ei] = Route{Hint: hint, Curvature: curv, Group: gi, Position: pos}
		}
	}
	return routes
}

// reversed is 1 when e points from the higher to the lower node index.
func reversed(e graph.Edge, lo int) int {
	if e.Source != lo {
		return 1
	}
	return 0
}
