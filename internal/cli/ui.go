package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("#6ea8fe") // primary actions
	colorAccent2 = lipgloss.Color("#9b8cff") // node kinds
	colorGreen   = lipgloss.Color("35")
	colorYellow  = lipgloss.Color("220")
	colorRed     = lipgloss.Color("167")
	colorWhite   = lipgloss.Color("#e7ecf5")
	colorGray    = lipgloss.Color("#a9b3c9")
	colorDim     = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleKind      = lipgloss.NewStyle().Foreground(colorAccent2)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	stylePartial  = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine is the one-line summary printed after a command.
type statsLine struct {
	triples     int
	nodes       int
	edges       int
	communities int
	partial     bool
	cache       *pipeline.CacheInfo
}

func statsFromResult(res *pipeline.Result) statsLine {
	info := res.CacheInfo
	return statsLine{
		triples:     res.Stats.Triples,
		nodes:       res.Stats.NodeCount,
		edges:       res.Stats.EdgeCount,
		communities: res.Communities.Count,
		partial:     res.Stats.Partial,
		cache:       &info,
	}
}

func (s statsLine) String() string {
	var parts []string
	add := func(n int, unit string) {
		if n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", n, unit)))
		}
	}
	add(s.triples, "triples")
	add(s.nodes, "nodes")
	add(s.edges, "edges")
	add(s.communities, "communities")

	if s.partial {
		parts = append(parts, stylePartial.Render("partial"))
	}
	if s.cache != nil {
		parts = append(parts, cacheBadge("graph", s.cache.GraphHit),
			cacheBadge("layout", s.cache.LayoutHit), cacheBadge("render", s.cache.RenderHit))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func cacheBadge(stage string, hit bool) string {
	if hit {
		return styleCached.Render(stage + " cached")
	}
	return styleComputed.Render(stage + " fresh")
}

func printStats(s statsLine) {
	fmt.Println(s.String())
}
