package layout

// Point is a position in layout space. Y grows downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Bounds is the axis-aligned box enclosing every node.
type Bounds struct {
	MinX   float64 `json:"min_x" bson:"min_x"`
	MinY   float64 `json:"min_y" bson:"min_y"`
	MaxX   float64 `json:"max_x" bson:"max_x"`
	MaxY   float64 `json:"max_y" bson:"max_y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Overlaps reports whether b and o share any interior area or touch.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func boundsOf(pts []Point, idx []int) Bounds {
	if len(idx) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: pts[idx[0]].X, MaxX: pts[idx[0]].X, MinY: pts[idx[0]].Y, MaxY: pts[idx[0]].Y}
	for _, i := range idx[1:] {
		p := pts[i]
		b.MinX, b.MaxX = min(b.MinX, p.X), max(b.MaxX, p.X)
		b.MinY, b.MaxY = min(b.MinY, p.Y), max(b.MaxY, p.Y)
	}
	b.Width, b.Height = b.MaxX-b.MinX, b.MaxY-b.MinY
	return b
}

// Result is a computed layout.
type Result struct {
	// Positions holds one point per node, indexed like graph.Graph.Nodes.
	Positions []Point `json:"positions" bson:"positions"`

	// Routes holds one routing hint per edge, indexed like graph.Graph.Edges.
	Routes []Route `json:"routes" bson:"routes"`

	Bounds Bounds `json:"bounds" bson:"bounds"`

	// Components lists node indices per connected component in packing order.
	Components [][]int `json:"components" bson:"components"`

	// ComponentBounds is the packed box of each component.
	ComponentBounds []Bounds `json:"component_bounds" bson:"component_bounds"`

	// Partial is set when the run was canceled before the iteration budget
	// was spent. Positions are still complete and non-overlapping.
	Partial bool `json:"partial" bson:"partial"`

	// Iterations counts the completed cooling steps.
	Iterations int `json:"iterations" bson:"iterations"`
}
