// Package render draws serialized diagrams with Graphviz.
//
// # Overview
//
// [ToDOT] turns a [payload.Payload] into Graphviz DOT with every node pinned
// at the position computed by the layout engine. [RenderSVG] and [RenderPNG]
// hand that DOT to the embedded Graphviz using the "nop" engine, which keeps
// the pinned positions and only routes the edges.
//
//	dot := render.ToDOT(p, render.DefaultTheme())
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Styling
//
// Node shapes follow the node kind: IRIs are ellipses, blank nodes dashed
// ellipses and literals rounded boxes. When the payload carries community
// groups, fills cycle through [Theme.Palette]; otherwise they follow the kind.
//
// # PDF
//
// [ToPDF] converts SVG output with the external rsvg-convert tool.
//
// [payload.Payload]: github.com/turtlyscope/turtlyscope/pkg/payload#Payload
package render
