package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/placement"
)

// syncBuffer lets the test read what the spinner goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFormatPass(t *testing.T) {
	tests := []struct {
		name string
		rep  engine.Report
		want string
	}{
		{
			name: "wander",
			rep:  engine.Report{Trigger: "links-ready", Mode: mode.Wander, Links: 8},
			want: "links-ready pass · wander · 8 links",
		},
		{
			name: "single link",
			rep:  engine.Report{Trigger: "load", Mode: mode.Rail, Links: 1},
			want: "load pass · rail · 1 link",
		},
		{
			name: "dimmed",
			rep:  engine.Report{Trigger: "resize", Mode: mode.Wander, Links: 5, Placement: placement.Result{Unresolved: 2}},
			want: "resize pass · wander · 5 links · 2 dimmed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPass(tt.rep); got != tt.want {
				t.Errorf("formatPass() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpinnerShowsLatestPass(t *testing.T) {
	var out syncBuffer
	s := newPassSpinner(context.Background(), &out, "Placing links...")
	s.observe(engine.Report{Trigger: "load", Mode: mode.Rail, Links: 3})
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "load pass") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Placing links...") || !strings.Contains(got, "3 links") {
		t.Errorf("spinner output missing message or pass: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("Stop should leave the line cleared")
	}
	if s.Cancelled() {
		t.Error("a stopped spinner is not cancelled")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newPassSpinner(ctx, &out, "Rendering svg...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newPassSpinner(context.Background(), &syncBuffer{}, "Placing links...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerObserveFromLayout(t *testing.T) {
	var out syncBuffer
	s := newPassSpinner(context.Background(), &out, "Placing links...")
	for _, trig := range []string{"links-ready", "load"} {
		s.observe(engine.Report{Trigger: trig, Mode: mode.Wander, Links: 2})
	}
	s.mu.Lock()
	pass := s.pass
	s.mu.Unlock()
	if !strings.HasPrefix(pass, "load pass") {
		t.Errorf("pass = %q, want the latest report", pass)
	}
}
