package layout

import (
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
)

// Guard bounds the graph size accepted for layout. The simulation is
// quadratic in the node count, so oversized graphs are rejected up front.
// A zero limit is unlimited.
type Guard struct {
	MaxNodes int `json:"max_nodes" bson:"max_nodes"`
	MaxEdges int `json:"max_edges" bson:"max_edges"`
}

// Check returns a *errors.SizeLimitError when g exceeds a limit.
func (gd Guard) Check(g *graph.Graph) error {
	if gd.MaxNodes > 0 && g.NodeCount() > gd.MaxNodes {
		return &tserrors.SizeLimitError{Kind: tserrors.LimitNodes, Limit: gd.MaxNodes, Actual: g.NodeCount()}
	}
	if gd.MaxEdges > 0 && g.EdgeCount() > gd.MaxEdges {
		return &tserrors.SizeLimitError{Kind: tserrors.LimitEdges, Limit: gd.MaxEdges, Actual: g.EdgeCount()}
	}
	return nil
}
