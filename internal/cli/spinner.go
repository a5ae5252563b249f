package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/linkdrift/pkg/engine"
)

// passSpinner animates on stderr while the engine runs and shows the state of
// the latest pass next to the message.
type passSpinner struct {
	w       io.Writer
	look    spinner.Spinner
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	pass    string
	drawn   int // cells written by the last frame
}

func newSpinnerWithContext(ctx context.Context, message string) *passSpinner {
	return newPassSpinner(ctx, os.Stderr, message)
}

func newPassSpinner(ctx context.Context, w io.Writer, message string) *passSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &passSpinner{
		w:       w,
		look:    spinner.Dot,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation. It must be called at most once.
func (s *passSpinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.look.FPS)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.look.Frames[i%len(s.look.Frames)])
			}
		}
	}()
}

// observe records a finished pass. It is safe to call from the scheduler
// goroutine.
func (s *passSpinner) observe(rep engine.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pass = formatPass(rep)
}

func formatPass(rep engine.Report) string {
	parts := []string{fmt.Sprintf("%s pass", rep.Trigger), rep.Mode.String(), fmt.Sprintf("%d %s", rep.Links, plural(rep.Links, "link", "links"))}
	if n := rep.Placement.Unresolved; n > 0 {
		parts = append(parts, fmt.Sprintf("%d dimmed", n))
	}
	return strings.Join(parts, " · ")
}

func (s *passSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(strings.TrimSpace(frame)) + " " + StyleDim.Render(s.message)
	if s.pass != "" {
		line += " " + StyleDim.Render("("+s.pass+")")
	}
	fmt.Fprintf(s.w, "\r%s", line)
	s.drawn = max(s.drawn, lipgloss.Width(line))
}

func (s *passSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}

// Stop halts the animation and clears the line. Repeated calls are no-ops.
func (s *passSpinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
	})
	<-s.stopped
	s.clearLine()
}

// StopWithError stops the spinner and prints message as an error.
func (s *passSpinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *passSpinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
