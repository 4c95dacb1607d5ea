package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/turtlyscope/turtlyscope/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a progress indicator that stops with its context.
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest message drawn, for clearing
	started bool
	once    sync.Once
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation. It is a no-op after the first call.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := len(s.message) + 4; w > s.width {
		s.width = w
	}
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// =============================================================================
// Pipeline progress
// =============================================================================

// spinnerHooks narrates pipeline stages on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	s *Spinner
}

func (h spinnerHooks) OnParseStart(_ context.Context, inputBytes int) {
	h.s.SetMessage(fmt.Sprintf("Parsing %d bytes of Turtle...", inputBytes))
}

func (h spinnerHooks) OnLayoutStart(_ context.Context, nodes int) {
	h.s.SetMessage(fmt.Sprintf("Laying out %d nodes...", nodes))
}

func (h spinnerHooks) OnRenderStart(_ context.Context, formats []string) {
	h.s.SetMessage("Rendering " + strings.Join(formats, ", ") + "...")
}

// withSpinner runs fn while a spinner narrates pipeline progress.
// The previous pipeline hooks are restored afterwards.
func withSpinner[T any](ctx context.Context, message string, fn func() (T, error)) (T, error) {
	s := newSpinnerWithContext(ctx, message)
	prev := observability.Pipeline()
	observability.SetPipelineHooks(spinnerHooks{s: s})
	defer observability.SetPipelineHooks(prev)

	s.Start()
	v, err := fn()
	s.Stop()
	return v, err
}
