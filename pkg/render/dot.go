package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/payload"
)

// ToDOT converts a payload to Graphviz DOT. Node positions are pinned with
// "pos" attributes in points; the y axis is flipped because Graphviz grows
// upwards while payload coordinates grow downwards.
func ToDOT(p payload.Payload, theme Theme) string {
	theme = theme.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%s, splines=true, overlap=true, outputorder=edgesfirst, pad=0.4];\n", quote(theme.Background))
	fmt.Fprintf(&buf, "  node [fontname=\"Helvetica\", fontsize=12, style=filled, penwidth=1.2, color=%s];\n", quote(theme.Border))
	fmt.Fprintf(&buf, "  edge [fontname=\"Helvetica\", fontsize=9, arrowsize=0.6, color=%s, fontcolor=%s];\n",
		quote(theme.Edge), quote(theme.Edge))
	buf.WriteString("\n")

	for _, n := range p.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(nodeAttrs(n, theme), ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		attrs := []string{
			"label=" + quote(e.Label),
			"tooltip=" + quote(e.Predicate),
		}
		if e.Routing != "" && e.Routing != "straight" {
			attrs = append(attrs, "class="+quote(e.Routing))
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n payload.Node, theme Theme) []string {
	attrs := []string{
		"label=" + quote(n.Label),
		"tooltip=" + quote(n.Title),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y),
	}

	fill := theme.GroupColor(n.Group)
	font := theme.Background
	switch n.Kind {
	case "literal":
		attrs = append(attrs, "shape=box", `style="rounded,filled"`)
		if fill == "" {
			fill, font = theme.Literal, theme.Font
		}
	case "blank":
		attrs = append(attrs, "shape=ellipse", `style="filled,dashed"`)
		if fill == "" {
			fill = theme.Palette[1%len(theme.Palette)]
		}
	default:
		attrs = append(attrs, "shape=ellipse")
		if fill == "" {
			fill = theme.Palette[0]
		}
	}
	if n.Group != "" {
		attrs = append(attrs, "class="+quote(n.Group))
	}
	return append(attrs, "fillcolor="+quote(fill), "fontcolor="+quote(font))
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
