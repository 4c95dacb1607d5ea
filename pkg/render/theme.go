package render

import (
	"strconv"
	"strings"
)

// Theme holds diagram colors as "#rrggbb" strings.
type Theme struct {
	Background string   `json:"background" toml:"background" yaml:"background" validate:"omitempty,hexcolor"`
	Font       string   `json:"font" toml:"font" yaml:"font" validate:"omitempty,hexcolor"`
	Edge       string   `json:"edge,omitempty" toml:"edge" yaml:"edge" validate:"omitempty,hexcolor"`
	Literal    string   `json:"literal,omitempty" toml:"literal" yaml:"literal" validate:"omitempty,hexcolor"`
	Border     string   `json:"border,omitempty" toml:"border" yaml:"border" validate:"omitempty,hexcolor"`
	Palette    []string `json:"palette,omitempty" toml:"palette" yaml:"palette" validate:"omitempty,dive,hexcolor"`
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#0b1020",
		Font:       "#e7ecf5",
		Edge:       "#a9b3c9",
		Literal:    "#111936",
		Border:     "#223055",
		Palette: []string{
			"#6ea8fe", "#9b8cff", "#5eead4", "#fbbf24",
			"#f472b6", "#a3e635", "#fb923c", "#38bdf8",
		},
	}
}

// WithDefaults fills empty fields from DefaultTheme.
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	if t.Background == "" {
		t.Background = d.Background
	}
	if t.Font == "" {
		t.Font = d.Font
	}
	if t.Edge == "" {
		t.Edge = d.Edge
	}
	if t.Literal == "" {
		t.Literal = d.Literal
	}
	if t.Border == "" {
		t.Border = d.Border
	}
	if len(t.Palette) == 0 {
		t.Palette = d.Palette
	}
	return t
}

// GroupColor returns the palette color for a "C<n>" community group, or ""
// for any other group name.
func (t Theme) GroupColor(group string) string {
	if len(t.Palette) == 0 || !strings.HasPrefix(group, "C") {
		return ""
	}
	n, err := strconv.Atoi(group[1:])
	if err != nil || n < 0 {
		return ""
	}
	return t.Palette[n%len(t.Palette)]
}
