package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
	"github.com/turtlyscope/turtlyscope/pkg/render"
)

const knows = `@prefix ex: <http://example.org/> .
ex:alice ex:knows ex:bob .
ex:bob ex:name "Bob" .
`

// runCLI executes the root command with args and fails the test on error.
func runCLI(t *testing.T, args ...string) {
	t.Helper()
	if err := execCLI(args...); err != nil {
		t.Fatalf("turtlyscope %s: %v", strings.Join(args, " "), err)
	}
}

func execCLI(args ...string) error {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func writeTurtle(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knows.ttl")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, json ,dot", []string{"svg", "json", "dot"}},
		{"svg,,png", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		single bool
		want   string
	}{
		{"FromInput", "", "data/foaf.ttl", "svg", true, "data/foaf.svg"},
		{"SingleOutput", "out.svg", "foaf.ttl", "svg", true, "out.svg"},
		{"MultiStripsKnownExt", "out/foaf.svg", "foaf.ttl", "png", false, "out/foaf.png"},
		{"MultiKeepsBase", "out/foaf", "foaf.ttl", "dot", false, "out/foaf.dot"},
		{"PayloadSuffix", "", "foaf.ttl", "json", false, "foaf.layout.json"},
		{"TurtleSuffix", "", "foaf.ttl", "ttl", false, "foaf.normalized.ttl"},
		{"FromPayload", "", "foaf.layout", "svg", true, "foaf.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.input, tt.format, tt.single); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDerivedPath(t *testing.T) {
	if got := derivedPath("dir/foaf.ttl", ".layout.json"); got != "dir/foaf.layout.json" {
		t.Errorf("derivedPath = %q", got)
	}
	if got := derivedPath("-", ".layout.json"); got != "-" {
		t.Errorf("derivedPath(-) = %q", got)
	}
}

func TestWriteArtifactsStdoutNeedsOneFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "png": nil},
		formats:   []string{"svg", "png"},
		input:     "-",
	})
	if err == nil {
		t.Fatal("expected error for two formats to stdout")
	}
}

func TestOptionFlagsApply(t *testing.T) {
	var flags optionFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.registerBuild(cmd)
	flags.registerLayout(cmd)
	flags.registerCache(cmd)

	if err := cmd.ParseFlags([]string{"--literals", "inline", "--seed", "9", "--community", "none"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Iterations: 50, Seed: 1, MaxLabelLength: 20}
	flags.apply(cmd, &opts)

	if opts.Literals != graph.LiteralsInline {
		t.Errorf("Literals = %q", opts.Literals)
	}
	if opts.Seed != 9 {
		t.Errorf("Seed = %d, want 9", opts.Seed)
	}
	if opts.Community != community.None {
		t.Errorf("Community = %q", opts.Community)
	}
	// Unset flags leave settings alone.
	if opts.Iterations != 50 || opts.MaxLabelLength != 20 {
		t.Errorf("unset flags overrode settings: %+v", opts)
	}
}

func TestStatsLine(t *testing.T) {
	s := statsLine{triples: 2, nodes: 3, edges: 2, partial: true, cache: &pipeline.CacheInfo{GraphHit: true}}
	got := s.String()
	for _, want := range []string{"2 triples", "3 nodes", "2 edges", "partial", "graph cached", "layout fresh"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats line %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "communities") {
		t.Errorf("zero counts should be omitted: %q", got)
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestParseCommand(t *testing.T) {
	input := writeTurtle(t, knows)
	dir := filepath.Dir(input)

	graphOut := filepath.Join(dir, "knows.graph.json")
	runCLI(t, "parse", input, "-o", graphOut)
	g, err := graph.ReadGraphFile(graphOut)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("graph has %d nodes, %d edges; want 3, 2", g.NodeCount(), g.EdgeCount())
	}

	ttlOut := filepath.Join(dir, "knows.out.ttl")
	runCLI(t, "parse", input, "--format", "ttl", "-o", ttlOut)
	data, err := os.ReadFile(ttlOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ex:alice ex:knows ex:bob .") {
		t.Errorf("normalized turtle:\n%s", data)
	}

	if err := execCLI("parse", input, "--format", "xml"); err == nil {
		t.Error("expected error for unknown parse format")
	}
}

func TestParseCommandSyntaxError(t *testing.T) {
	input := writeTurtle(t, "@prefix ex: <http://example.org/> .\nex:a ex:b \"open .\n")
	err := execCLI("parse", input)
	if !tserrors.Is(err, tserrors.ErrCodeSyntax) {
		t.Fatalf("err = %v, want syntax error", err)
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	input := writeTurtle(t, knows)
	dir := filepath.Dir(input)

	runCLI(t, "layout", input, "--no-cache", "--iterations", "50")
	layoutPath := filepath.Join(dir, "knows.layout.json")
	p, err := payload.ReadFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 3 || len(p.Edges) != 2 {
		t.Fatalf("payload has %d nodes, %d edges", len(p.Nodes), len(p.Edges))
	}

	runCLI(t, "visualize", layoutPath, "-f", "dot")
	dot, err := os.ReadFile(filepath.Join(dir, "knows.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output:\n%s", dot)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeTurtle(t, knows)
	base := filepath.Join(t.TempDir(), "out", "knows")

	runCLI(t, "render", input, "--no-cache", "-f", "dot,json,ttl", "-o", base)

	for _, path := range []string{base + ".dot", base + ".layout.json", base + ".normalized.ttl"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact: %v", err)
		}
	}

	if err := execCLI("render", input, "--no-cache", "-f", "gif"); !tserrors.Is(err, tserrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderCommandSizeLimit(t *testing.T) {
	input := writeTurtle(t, knows)
	err := execCLI("render", input, "--no-cache", "--max-nodes", "2", "-f", "dot")
	if !tserrors.Is(err, tserrors.ErrCodeSizeLimit) {
		t.Fatalf("err = %v, want SIZE_LIMIT", err)
	}
}

// =============================================================================
// Inspect model
// =============================================================================

func inspectFixture() InspectModel {
	p := payload.Payload{
		Nodes: []payload.Node{
			{ID: "http://example.org/alice", Label: "ex:alice", Kind: "iri"},
			{ID: "http://example.org/bob", Label: "ex:bob", Kind: "iri"},
			{ID: "\"Bob\"", Label: "\"Bob\"", Kind: "literal"},
		},
		Edges: []payload.Edge{
			{SourceIndex: 0, TargetIndex: 1, Label: "ex:knows"},
			{SourceIndex: 1, TargetIndex: 2, Label: "ex:name"},
		},
	}
	return NewInspectModel(p, render.Theme{})
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestInspectNavigation(t *testing.T) {
	m := press(inspectFixture(), "j", "down").(InspectModel)
	if m.Cursor != 2 {
		t.Fatalf("Cursor = %d, want 2", m.Cursor)
	}
	m = press(m, "j").(InspectModel)
	if m.Cursor != 2 {
		t.Errorf("cursor moved past the end: %d", m.Cursor)
	}
	m = press(m, "g").(InspectModel)
	if sel := m.Selected(); sel == nil || sel.Label != "ex:alice" {
		t.Errorf("Selected() = %v after home", sel)
	}
}

func TestInspectFilter(t *testing.T) {
	m := press(inspectFixture(), "/", "b", "o", "b").(InspectModel)
	if !m.Filtering || m.Query != "bob" {
		t.Fatalf("Filtering = %v, Query = %q", m.Filtering, m.Query)
	}
	if len(m.Visible) != 2 {
		t.Errorf("Visible = %v, want ex:bob and \"Bob\"", m.Visible)
	}

	m = press(m, "enter").(InspectModel)
	if m.Filtering {
		t.Error("enter should leave filter mode")
	}

	m = press(m, "/", "backspace", "backspace", "backspace").(InspectModel)
	if m.Query != "" || len(m.Visible) != 3 {
		t.Errorf("Query = %q, Visible = %v", m.Query, m.Visible)
	}

	none := press(inspectFixture(), "/", "z", "z").(InspectModel)
	if none.Selected() != nil {
		t.Error("Selected() should be nil with no matches")
	}
}

func TestInspectQuit(t *testing.T) {
	_, cmd := inspectFixture().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestInspectView(t *testing.T) {
	view := inspectFixture().View()
	for _, want := range []string{"TurtlyScope", "ex:alice", "ex:knows"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
