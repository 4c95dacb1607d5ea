package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
	"github.com/turtlyscope/turtlyscope/pkg/render"
)

// inspectCommand creates the interactive node browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "inspect <file.ttl|layout.json>",
		Short: "Browse nodes and their connections in the terminal",
		Long: `Browse nodes and their connections in the terminal.

Accepts a Turtle file (laid out on the fly) or a payload from 'layout'.
Move with the arrow keys or j/k, press / to filter by label and q to quit.
The panel below the list shows the selected node's hover text and its
incoming and outgoing edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.Formats = []string{pipeline.FormatJSON}
			p, err := c.loadPayload(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewInspectModel(p, c.Settings.Theme), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.registerBuild(cmd)
	flags.registerLayout(cmd)
	flags.registerCache(cmd)

	return cmd
}

func (c *CLI) loadPayload(ctx context.Context, input string, opts pipeline.Options, noCache bool) (payload.Payload, error) {
	if strings.HasSuffix(strings.ToLower(input), ".json") {
		return payload.ReadFile(input)
	}
	text, err := readInput(input)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("read %s: %w", input, err)
	}
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()
	res, err := withSpinner(ctx, "Computing layout...", func() (*pipeline.Result, error) {
		return runner.Execute(ctx, text, opts)
	})
	if err != nil {
		return payload.Payload{}, err
	}
	return res.Payload, nil
}

// =============================================================================
// InspectModel - interactive node browser
// =============================================================================

var (
	inspectHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	inspectPanelStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// InspectModel is the bubbletea model for the node browser.
type InspectModel struct {
	Payload payload.Payload
	Theme   render.Theme

	Visible   []int // indices into Payload.Nodes after filtering
	Cursor    int   // position in Visible
	Offset    int
	Height    int
	Query     string
	Filtering bool

	out map[int][]int // node -> outgoing edge indices
	in  map[int][]int // node -> incoming edge indices
}

// NewInspectModel creates a browser over p.
func NewInspectModel(p payload.Payload, theme render.Theme) InspectModel {
	m := InspectModel{
		Payload: p,
		Theme:   theme.WithDefaults(),
		Height:  12,
		out:     make(map[int][]int),
		in:      make(map[int][]int),
	}
	for i, e := range p.Edges {
		m.out[e.SourceIndex] = append(m.out[e.SourceIndex], i)
		m.in[e.TargetIndex] = append(m.in[e.TargetIndex], i)
	}
	m.applyFilter()
	return m
}

func (m *InspectModel) applyFilter() {
	q := strings.ToLower(m.Query)
	m.Visible = make([]int, 0, len(m.Payload.Nodes))
	for i, n := range m.Payload.Nodes {
		if q == "" || strings.Contains(strings.ToLower(n.Label), q) || strings.Contains(strings.ToLower(n.ID), q) {
			m.Visible = append(m.Visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the node under the cursor, or nil when nothing matches.
func (m InspectModel) Selected() *payload.Node {
	if len(m.Visible) == 0 {
		return nil
	}
	return &m.Payload.Nodes[m.Visible[m.Cursor]]
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.Filtering = true
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail panel.
		m.Height = max(msg.Height-18, 5)
	}
	return m, nil
}

func (m InspectModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.Filtering = false
	case tea.KeyBackspace:
		if m.Query != "" {
			r := []rune(m.Query)
			m.Query = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Query += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("TurtlyScope"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges", len(m.Payload.Nodes), len(m.Payload.Edges))))
	b.WriteString("\n")
	switch {
	case m.Filtering:
		b.WriteString(StyleHighlight.Render("/" + m.Query + "▏"))
	case m.Query != "":
		b.WriteString(StyleDim.Render("filter: " + m.Query + "  (/ to edit)"))
	default:
		b.WriteString(StyleDim.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Payload.Nodes[m.Visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		group := n.Group
		if group == "" {
			group = "—"
		}
		idx := m.Visible[i]
		rows = append(rows, []string{cursor, n.Label, n.Kind, group,
			fmt.Sprintf("%d/%d", len(m.in[idx]), len(m.out[idx]))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Group", "In/Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return inspectHeaderStyle
			}
			pos := m.Offset + row
			if pos >= len(m.Visible) {
				return lipgloss.NewStyle()
			}
			n := m.Payload.Nodes[m.Visible[pos]]
			style := lipgloss.NewStyle()
			switch col {
			case 2:
				style = StyleKind
			case 3:
				if c := m.Theme.GroupColor(n.Group); c != "" {
					style = style.Foreground(lipgloss.Color(c))
				} else {
					style = StyleDim
				}
			}
			if pos == m.Cursor {
				return style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Visible)), len(m.Visible))))
	b.WriteString("\n")

	if sel := m.Selected(); sel != nil {
		b.WriteString(inspectPanelStyle.Render(m.detail(m.Visible[m.Cursor])))
		b.WriteString("\n")
	}
	return b.String()
}

// detail renders the hover title plus edges of node i.
func (m InspectModel) detail(i int) string {
	n := m.Payload.Nodes[i]
	var b strings.Builder
	b.WriteString(StyleValue.Render(n.Title))
	for _, ei := range m.out[i] {
		e := m.Payload.Edges[ei]
		fmt.Fprintf(&b, "\n%s %s %s", StyleHighlight.Render(iconArrow), e.Label, m.Payload.Nodes[e.TargetIndex].Label)
	}
	for _, ei := range m.in[i] {
		e := m.Payload.Edges[ei]
		fmt.Fprintf(&b, "\n%s %s %s", StyleDim.Render("←"), e.Label, m.Payload.Nodes[e.SourceIndex].Label)
	}
	return b.String()
}
