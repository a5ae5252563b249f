package scheduler

import (
	"context"
	"time"
)

// DefaultFrameInterval is one frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Event is delivered to a Loop. Apply, if set, runs on the loop goroutine
// before the trigger is handled; use it to mutate the page (viewport, links)
// without racing the engine.
type Event struct {
	Trigger Trigger
	Apply   func()

	barrier chan struct{}
}

// Loop serialises events and frames on a single goroutine.
type Loop struct {
	events   chan Event
	frames   ManualFrames
	sched    *Scheduler
	interval time.Duration
}

// NewLoop creates a loop. A non-positive interval means DefaultFrameInterval.
func NewLoop(fn RecomputeFunc, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	l := &Loop{events: make(chan Event, 64), interval: interval}
	l.sched = New(fn, &l.frames)
	return l
}

// Send queues an event. It blocks while the queue is full.
func (l *Loop) Send(ctx context.Context, ev Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync waits until every event sent before it has been handled and any
// pending frame has run.
func (l *Loop) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if err := l.Send(ctx, Event{barrier: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.frames.Flush()
		case ev := <-l.events:
			if ev.barrier != nil {
				l.frames.Flush()
				close(ev.barrier)
				continue
			}
			if ev.Apply != nil {
				ev.Apply()
			}
			l.sched.Notify(ctx, ev.Trigger)
		}
	}
}

// Stats returns the underlying scheduler counters. Only call it after Run
// has returned or from inside an Apply callback.
func (l *Loop) Stats() (runs, coalesced int) { return l.sched.Stats() }
