package layout

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
)

// minDistance is the separation below which two nodes count as coincident.
const minDistance = 1e-6

// component is the simulation state of one connected component.
type component struct {
	nodes []int // graph node indices, sorted by ID
	local map[int]int
	edges [][2]int // local endpoints, self-loops removed
	pos   []Point
	disp  []Point
	t0    float64
}

// Compute lays out g with a Fruchterman–Reingold style simulation.
//
// Each connected component is simulated on its own, all components advancing
// one iteration at a time, and the results are shelf-packed so that their
// bounding boxes never overlap. The output depends only on g and cfg.
//
// ctx is checked between iterations. When it is done the simulation stops,
// the current positions are packed as usual and Result.Partial is set.
// Compute never fails; out-of-range config values fall back to defaults.
func Compute(ctx context.Context, g *graph.Graph, cfg Config) *Result {
	cfg = cfg.normalized()
	k := cfg.IdealEdgeLength

	comps := g.Components()
	states := make([]*component, len(comps))
	for ci, nodes := range comps {
		states[ci] = newComponent(g, nodes, ci, cfg)
	}

	res := &Result{Components: comps}
	for it := 0; it < cfg.Iterations; it++ {
		if ctx.Err() != nil {
			res.Partial = true
			break
		}
		cooling := 1 - float64(it)/float64(cfg.Iterations)
		for _, c := range states {
			c.step(cfg, k, c.t0*cooling)
		}
		res.Iterations++
	}

	res.Positions = make([]Point, g.NodeCount())
	for _, c := range states {
		for li, gi := range c.nodes {
			res.Positions[gi] = c.pos[li]
		}
	}
	res.ComponentBounds = pack(res.Positions, comps, k)
	res.Bounds = boundsOf(res.Positions, allIndices(g.NodeCount()))
	res.Routes = Routes(g)
	return res
}

func newComponent(g *graph.Graph, nodes []int, ordinal int, cfg Config) *component {
	n := len(nodes)
	c := &component{
		nodes: nodes,
		local: make(map[int]int, n),
		pos:   make([]Point, n),
		disp:  make([]Point, n),
	}
	for li, gi := range nodes {
		c.local[gi] = li
	}
	for _, gi := range nodes {
		for _, ei := range g.IncidentEdges(gi) {
			e := g.Edges()[ei]
			// Record each edge once, from its source.
			if e.Source != gi || e.IsLoop() {
				continue
			}
			c.edges = append(c.edges, [2]int{c.local[e.Source], c.local[e.Target]})
		}
	}

	side := cfg.IdealEdgeLength * math.Sqrt(float64(n))
	c.t0 = side / 10
	if n == 1 {
		return c
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^mixOrdinal(ordinal)))
	for li := range c.pos {
		c.pos[li] = Point{X: (rng.Float64() - 0.5) * side, Y: (rng.Float64() - 0.5) * side}
	}
	return c
}

// mixOrdinal spreads a component ordinal over the seed's bits.
func mixOrdinal(ordinal int) uint64 {
	z := uint64(ordinal+1) * 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	return z ^ (z >> 27)
}

// step advances the simulation by one iteration at temperature t.
func (c *component) step(cfg Config, k, t float64) {
	n := len(c.pos)
	if n < 2 {
		return
	}
	for i := range c.disp {
		c.disp[i] = Point{}
	}

	rep := cfg.Repulsion * k * k * k
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			dx, dy := c.pos[u].X-c.pos[v].X, c.pos[u].Y-c.pos[v].Y
			d := math.Hypot(dx, dy)
			if d < minDistance {
				dx, dy, d = nudge(u, v)
			}
			f := rep / (d * d)
			fx, fy := dx/d*f, dy/d*f
			c.disp[u].X += fx
			c.disp[u].Y += fy
			c.disp[v].X -= fx
			c.disp[v].Y -= fy
		}
	}

	for _, e := range c.edges {
		u, v := e[0], e[1]
		dx, dy := c.pos[u].X-c.pos[v].X, c.pos[u].Y-c.pos[v].Y
		d := math.Hypot(dx, dy)
		if d < minDistance {
			continue
		}
		f := cfg.Attraction * d
		fx, fy := dx/d*f, dy/d*f
		c.disp[u].X -= fx
		c.disp[u].Y -= fy
		c.disp[v].X += fx
		c.disp[v].Y += fy
	}

	for i, dp := range c.disp {
		l := math.Hypot(dp.X, dp.Y)
		if l < minDistance {
			continue
		}
		s := min(l, t) / l
		c.pos[i].X += dp.X * s
		c.pos[i].Y += dp.Y * s
	}
}

// nudge returns a small deterministic separation for coincident nodes u < v.
func nudge(u, v int) (dx, dy, d float64) {
	angle := float64((u*31+v*17)%360) * math.Pi / 180
	dx, dy = 0.01*math.Cos(angle), 0.01*math.Sin(angle)
	return dx, dy, math.Hypot(dx, dy)
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
