package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/observability"
	"github.com/turtlyscope/turtlyscope/pkg/payload"
)

const knows = `@prefix ex: <http://example.org/> .
ex:alice ex:knows ex:bob .
ex:bob ex:name "Bob" .
`

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestExecuteKnows(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), knows, Options{
		Formats: []string{FormatJSON, FormatDOT, FormatTTL},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Triples != 2 || res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Partial || res.Stats.Iterations != 300 {
		t.Errorf("layout stats = %+v", res.Stats)
	}
	if len(res.Payload.Nodes) != 3 || res.Payload.Communities == nil {
		t.Fatalf("payload = %+v", res.Payload)
	}

	p, err := payload.Unmarshal(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	labels := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		labels[i] = n.Label
	}
	if got := strings.Join(labels, " "); got != `ex:alice ex:bob "Bob"` {
		t.Errorf("labels = %s", got)
	}
	if !bytes.Contains(res.Artifacts[FormatDOT], []byte(`"http://example.org/alice" -> "http://example.org/bob"`)) {
		t.Errorf("dot artifact missing edge:\n%s", res.Artifacts[FormatDOT])
	}
	if !bytes.Contains(res.Artifacts[FormatTTL], []byte("ex:alice ex:knows ex:bob .")) {
		t.Errorf("ttl artifact:\n%s", res.Artifacts[FormatTTL])
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	tests := []struct {
		name string
		ctx  context.Context
		text string
		opts Options
		code tserrors.Code
		kind string // SizeLimitError kind
	}{
		{"Empty", context.Background(), "  \n\t", Options{}, tserrors.ErrCodeInvalidInput, ""},
		{"Oversized", context.Background(), knows, Options{MaxInputBytes: 10}, tserrors.ErrCodeSizeLimit, tserrors.LimitInput},
		{"Syntax", context.Background(), "@prefix ex: <http://example.org/> .\nex:a ex:p \"open", Options{}, tserrors.ErrCodeSyntax, ""},
		{"TooManyNodes", context.Background(), knows, Options{MaxNodes: 2}, tserrors.ErrCodeSizeLimit, tserrors.LimitNodes},
		{"TooManyEdges", context.Background(), knows, Options{MaxEdges: 1}, tserrors.ErrCodeSizeLimit, tserrors.LimitEdges},
		{"BadOption", context.Background(), knows, Options{Formats: []string{"gif"}}, tserrors.ErrCodeInvalidFormat, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(tt.ctx, tt.text, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := tserrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
			if tt.kind != "" {
				var se *tserrors.SizeLimitError
				if !errors.As(err, &se) || se.Kind != tt.kind {
					t.Errorf("error = %v, want size limit %q", err, tt.kind)
				}
			}
		})
	}
}

func TestExecuteSyntaxErrorPosition(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(),
		"@prefix ex: <http://example.org/> .\nex:a ex:p \"open", Options{})
	var se *tserrors.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 2 || se.Column != 11 {
		t.Errorf("position = %d:%d, want 2:11", se.Line, se.Column)
	}
}

func TestExecuteCaching(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatJSON, FormatTTL}}

	first, err := r.Execute(ctx, knows, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("cold run cache info = %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, knows, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo != (CacheInfo{GraphHit: true, LayoutHit: true, RenderHit: true}) {
		t.Errorf("warm run cache info = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached payload differs from computed payload")
	}
	if len(second.Document.Triples) != 2 || second.GraphHash != first.GraphHash {
		t.Errorf("cached document/graph mismatch: %d triples, %s vs %s",
			len(second.Document.Triples), second.GraphHash, first.GraphHash)
	}

	// Layout options change the layout key only.
	reseeded, err := r.Execute(ctx, knows, Options{Formats: opts.Formats, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !reseeded.CacheInfo.GraphHit || reseeded.CacheInfo.LayoutHit {
		t.Errorf("reseeded cache info = %+v", reseeded.CacheInfo)
	}
	if reseeded.GraphHash != first.GraphHash {
		t.Errorf("graph hash after cache hit = %s, want %s", reseeded.GraphHash, first.GraphHash)
	}

	// Build options change the graph key.
	inline, err := r.Execute(ctx, knows, Options{Formats: opts.Formats, Literals: "inline"})
	if err != nil {
		t.Fatal(err)
	}
	if inline.CacheInfo.GraphHit || inline.Stats.NodeCount != 2 {
		t.Errorf("inline run = %+v, %+v", inline.CacheInfo, inline.Stats)
	}

	refreshed, err := r.Execute(ctx, knows, Options{Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh cache info = %+v", refreshed.CacheInfo)
	}
}

// stopAfter reports cancellation after n calls to Err.
type stopAfter struct {
	context.Context
	mu sync.Mutex
	n  int
}

func (s *stopAfter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n <= 0 {
		return context.Canceled
	}
	s.n--
	return nil
}

func TestExecutePartialNotCached(t *testing.T) {
	r := newRunner(t)

	// The layout runs one iteration before it sees the cancellation.
	ctx := &stopAfter{Context: context.Background(), n: 1}
	res, err := r.Execute(ctx, knows, Options{})
	if err != nil {
		t.Fatalf("partial run should succeed: %v", err)
	}
	if !res.Stats.Partial || !res.Payload.Partial {
		t.Fatalf("expected partial result, stats = %+v", res.Stats)
	}

	full, err := r.Execute(context.Background(), knows, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if full.CacheInfo.LayoutHit || full.Stats.Partial {
		t.Errorf("partial layout was cached: %+v", full.CacheInfo)
	}
	if !full.CacheInfo.GraphHit {
		t.Error("graph stage should still be cached")
	}
}

func TestExecuteAlreadyCanceled(t *testing.T) {
	r := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Execute(ctx, knows, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("canceled run should return a partial result: %v", err)
	}
	if !res.Stats.Partial || res.Stats.Iterations != 0 {
		t.Errorf("stats = %+v, want partial with 0 iterations", res.Stats)
	}
	if len(res.Payload.Nodes) != 3 || len(res.Artifacts[FormatJSON]) == 0 {
		t.Errorf("partial payload has %d nodes, %d JSON bytes",
			len(res.Payload.Nodes), len(res.Artifacts[FormatJSON]))
	}

	full, err := r.Execute(context.Background(), knows, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if full.CacheInfo.LayoutHit || full.CacheInfo.RenderHit {
		t.Errorf("partial outputs were cached: %+v", full.CacheInfo)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	text := knows + `ex:carol ex:knows ex:alice , ex:bob . _:x ex:likes ex:carol .`
	var outputs [][]byte
	for range 3 {
		res, err := r.Execute(context.Background(), text, Options{Formats: []string{FormatJSON, FormatDOT}})
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, append(res.Artifacts[FormatJSON], res.Artifacts[FormatDOT]...))
	}
	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Fatalf("run %d produced different output", i)
		}
	}
}

func TestStages(t *testing.T) {
	ctx := context.Background()
	opts := Options{Formats: []string{FormatDOT, FormatTTL}, Base: "http://example.org/"}

	doc, err := Parse(ctx, `<a> <knows> <b> .`, opts)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Triples[0].Subject.Value != "http://example.org/a" {
		t.Errorf("base not applied: %v", doc.Triples[0])
	}
	g, err := Build(ctx, doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Layout(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Layout.Positions) != 2 || out.Communities.Used != "louvain" {
		t.Errorf("layout output = %+v", out)
	}
	artifacts, err := Render(ctx, Serialize(g, out), doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 2 || !bytes.HasPrefix(artifacts[FormatDOT], []byte("digraph G {")) {
		t.Errorf("artifacts = %v", artifacts)
	}

	if _, err := Render(ctx, Serialize(g, nil), nil, opts); !tserrors.Is(err, tserrors.ErrCodeUnsupported) {
		t.Errorf("ttl without document: %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnParseStart(context.Context, int) { h.record("parse-start") }
func (h *recordingHooks) OnParseComplete(_ context.Context, _ int, _ time.Duration, err error) {
	h.record("parse-done")
}
func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration) { h.record("build") }
func (h *recordingHooks) OnLayoutStart(context.Context, int)                       { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(context.Context, int, bool, time.Duration, error) {
	h.record("layout-done")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-done")
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), knows, Options{}); err != nil {
		t.Fatal(err)
	}
	want := "parse-start parse-done build layout-start layout-done render-start render-done"
	if got := strings.Join(hooks.events, " "); got != want {
		t.Errorf("events = %s\nwant     %s", got, want)
	}
}
