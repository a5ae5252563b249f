// Package scheduler decides when the engine recomputes.
//
// Resize events arrive in bursts, so they are coalesced: the first Resize
// requests an animation frame and later ones are dropped until that frame
// runs. Every other trigger recomputes immediately. Frames come from a
// [FrameSource]; [ManualFrames] queues them for explicit flushing and [Loop]
// flushes them on a ticker.
package scheduler

import (
	"context"
	"fmt"
)

// Trigger is the reason for a recomputation.
type Trigger int

const (
	Resize Trigger = iota
	OrientationChange
	FontsReady
	Load
	LinksReady
)

var triggerNames = [...]string{
	Resize:            "resize",
	OrientationChange: "orientation-change",
	FontsReady:        "fonts-ready",
	Load:              "load",
	LinksReady:        "links-ready",
}

func (t Trigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return fmt.Sprintf("trigger(%d)", int(t))
	}
	return triggerNames[t]
}

// ParseTrigger converts a trigger name back to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	for i, n := range triggerNames {
		if n == s {
			return Trigger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger %q", s)
}

// Coalesced reports whether the trigger waits for a frame.
func (t Trigger) Coalesced() bool { return t == Resize }

// FrameSource runs callbacks at the next frame.
type FrameSource interface {
	RequestFrame(fn func())
}

// RecomputeFunc runs one recomputation.
type RecomputeFunc func(ctx context.Context, t Trigger)

// Scheduler routes triggers to a RecomputeFunc. It is not safe for
// concurrent use.
type Scheduler struct {
	recompute RecomputeFunc
	frames    FrameSource
	pending   bool

	runs      int
	coalesced int
}

// New creates a scheduler.
func New(fn RecomputeFunc, frames FrameSource) *Scheduler {
	return &Scheduler{recompute: fn, frames: frames}
}

// Notify handles one trigger.
func (s *Scheduler) Notify(ctx context.Context, t Trigger) {
	if !t.Coalesced() {
		s.run(ctx, t)
		return
	}
	if s.pending {
		s.coalesced++
		return
	}
	s.pending = true
	s.frames.RequestFrame(func() {
		s.pending = false
		s.run(ctx, t)
	})
}

func (s *Scheduler) run(ctx context.Context, t Trigger) {
	s.runs++
	s.recompute(ctx, t)
}

// Pending reports whether a frame is outstanding.
func (s *Scheduler) Pending() bool { return s.pending }

// Stats returns how many recomputations ran and how many resize events were
// dropped while a frame was pending.
func (s *Scheduler) Stats() (runs, coalesced int) { return s.runs, s.coalesced }

// ManualFrames is a FrameSource that queues callbacks until Flush.
type ManualFrames struct {
	queue []func()
}

// RequestFrame implements FrameSource.
func (m *ManualFrames) RequestFrame(fn func()) { m.queue = append(m.queue, fn) }

// Len returns the number of queued callbacks.
func (m *ManualFrames) Len() int { return len(m.queue) }

// Flush runs the callbacks queued so far and returns how many ran.
// Callbacks requested during the flush wait for the next one.
func (m *ManualFrames) Flush() int {
	q := m.queue
	m.queue = nil
	for _, fn := range q {
		fn()
	}
	return len(q)
}
