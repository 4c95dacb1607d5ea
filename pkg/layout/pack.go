package layout

import "math"

// pack translates each component so that its bounding box starts at the
// packing cursor, filling shelves left to right. Components are placed in
// the order given, separated by gap in both directions. It returns the
// final box of each component.
func pack(pos []Point, comps [][]int, gap float64) []Bounds {
	boxes := make([]Bounds, len(comps))
	area, widest := 0.0, 0.0
	for ci, nodes := range comps {
		boxes[ci] = boundsOf(pos, nodes)
		area += (boxes[ci].Width + gap) * (boxes[ci].Height + gap)
		widest = max(widest, boxes[ci].Width)
	}
	shelfWidth := max(widest, math.Sqrt(area))

	x, y, shelfHeight := 0.0, 0.0, 0.0
	for ci, nodes := range comps {
		b := boxes[ci]
		if x > 0 && x+b.Width > shelfWidth {
			x = 0
			y += shelfHeight + gap
			shelfHeight = 0
		}
		dx, dy := x-b.MinX, y-b.MinY
		for _, i := range nodes {
			pos[i].X += dx
			pos[i].Y += dy
		}
		boxes[ci] = Bounds{MinX: x, MinY: y, MaxX: x + b.Width, MaxY: y + b.Height, Width: b.Width, Height: b.Height}
		x += b.Width + gap
		shelfHeight = max(shelfHeight, b.Height)
	}
	return boxes
}
