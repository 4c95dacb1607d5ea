package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/turtlyscope/turtlyscope/pkg/observability"
)

func quietSpinner(ctx context.Context, message string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &buf
	return s, &buf
}

func TestSpinnerBasic(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Testing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains(buf.Bytes(), []byte("Testing...")) {
		t.Errorf("spinner output missing message: %q", buf.String())
	}
	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := quietSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "never shown")
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("unstarted spinner wrote %q", buf.String())
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "first")
	s.SetMessage("second")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains(buf.Bytes(), []byte("second")) {
		t.Errorf("output missing updated message: %q", buf.String())
	}
}

func TestSpinnerHooks(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "")
	h := spinnerHooks{s: s}

	h.OnParseStart(context.Background(), 120)
	if s.message != "Parsing 120 bytes of Turtle..." {
		t.Errorf("message = %q", s.message)
	}
	h.OnLayoutStart(context.Background(), 7)
	if s.message != "Laying out 7 nodes..." {
		t.Errorf("message = %q", s.message)
	}
	h.OnRenderStart(context.Background(), []string{"svg", "json"})
	if s.message != "Rendering svg, json..." {
		t.Errorf("message = %q", s.message)
	}
}

func TestWithSpinnerRestoresHooks(t *testing.T) {
	before := observability.Pipeline()

	got, err := withSpinner(context.Background(), "Working...", func() (int, error) {
		if _, ok := observability.Pipeline().(spinnerHooks); !ok {
			t.Errorf("pipeline hooks during run = %T, want spinnerHooks", observability.Pipeline())
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("withSpinner = %d, %v", got, err)
	}
	if observability.Pipeline() != before {
		t.Error("pipeline hooks not restored")
	}
}
