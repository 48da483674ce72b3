// Package loop drives the simulation: a throttled frame scheduler fed by a host
// frame source, with deferred one-shot actions on the same timeline.
package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// frameSlack absorbs host timer jitter so a 60 Hz host reliably yields every
// second frame at 30 ticks per second.
const frameSlack = time.Millisecond

// StepFunc runs one accepted tick. frame counts accepted ticks from 1; now is
// the host time of the tick.
type StepFunc func(frame uint64, now time.Duration)

// Scheduler throttles host frames to a fixed tick rate. All callbacks run on the
// goroutine calling Frame (or Run); ticks are strictly sequential.
type Scheduler struct {
	interval time.Duration
	step     StepFunc

	started bool
	last    time.Duration
	now     time.Duration
	frame   uint64

	deferred []*Deferred
	stopped  atomic.Bool
}

// NewScheduler creates a scheduler running step at tps ticks per second.
func NewScheduler(tps int, step StepFunc) *Scheduler {
	if tps <= 0 {
		tps = 1
	}
	return &Scheduler{
		interval: time.Second / time.Duration(tps),
		step:     step,
	}
}

// Interval returns the minimum time between accepted ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// FrameCount returns the number of accepted ticks.
func (s *Scheduler) FrameCount() uint64 {
	return s.frame
}

// Now returns the host time of the last accepted tick.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Frame offers a host frame at time now. Frames arriving sooner than the tick
// interval after the last accepted one are skipped. An accepted frame advances
// the frame counter, runs due deferred actions and then the step.
// Returns true if the frame was accepted.
func (s *Scheduler) Frame(now time.Duration) bool {
	if s.started && now-s.last < s.interval-frameSlack {
		return false
	}
	s.started = true
	s.last = now
	s.now = now
	s.frame++

	s.runDeferred(now)

	if s.step != nil {
		s.step(s.frame, now)
	}
	return true
}

// Deferred is a one-shot action scheduled on the tick timeline.
type Deferred struct {
	at        time.Duration
	fn        func()
	cancelled bool
	done      bool
}

// Cancel prevents the action from running. Safe to call more than once,
// and after the action ran.
func (d *Deferred) Cancel() {
	if d != nil {
		d.cancelled = true
	}
}

// Pending reports whether the action is still waiting to run.
func (d *Deferred) Pending() bool {
	return d != nil && !d.cancelled && !d.done
}

// After schedules fn to run on the first accepted tick at least delay after the
// current tick.
func (s *Scheduler) After(delay time.Duration, fn func()) *Deferred {
	d := &Deferred{at: s.now + delay, fn: fn}
	s.deferred = append(s.deferred, d)
	return d
}

// CancelAll cancels every pending deferred action.
func (s *Scheduler) CancelAll() {
	for _, d := range s.deferred {
		d.Cancel()
	}
	s.deferred = s.deferred[:0]
}

func (s *Scheduler) runDeferred(now time.Duration) {
	if len(s.deferred) == 0 {
		return
	}

	// Actions scheduled from inside fn land on the next tick.
	due := append([]*Deferred(nil), s.deferred...)
	for _, d := range due {
		if !d.Pending() || d.at > now {
			continue
		}
		d.done = true
		d.fn()
	}

	kept := s.deferred[:0]
	for _, d := range s.deferred {
		if d.Pending() {
			kept = append(kept, d)
		}
	}
	for i := len(kept); i < len(s.deferred); i++ {
		s.deferred[i] = nil
	}
	s.deferred = kept
}

// Host supplies display frames.
type Host interface {
	// NextFrame blocks until the next display refresh and returns its time.
	NextFrame(ctx context.Context) (time.Duration, error)
}

// Run requests frames from host and offers each one to Frame until ctx is done or
// Stop is called. Returns nil after Stop.
func (s *Scheduler) Run(ctx context.Context, host Host) error {
	s.stopped.Store(false)
	for !s.stopped.Load() {
		now, err := host.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) && s.stopped.Load() {
				return nil
			}
			return err
		}
		s.Frame(now)
	}
	return nil
}

// Stop ends Run after the current tick. Safe to call from any goroutine.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
}

// TickerHost produces frames from a time.Ticker.
type TickerHost struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerHost creates a host refreshing hz times per second.
func NewTickerHost(hz int) *TickerHost {
	if hz <= 0 {
		hz = 60
	}
	return &TickerHost{
		ticker: time.NewTicker(time.Second / time.Duration(hz)),
		start:  time.Now(),
	}
}

// NextFrame waits for the next tick.
func (h *TickerHost) NextFrame(ctx context.Context) (time.Duration, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-h.ticker.C:
		return t.Sub(h.start), nil
	}
}

// Close stops the underlying ticker.
func (h *TickerHost) Close() {
	h.ticker.Stop()
}
