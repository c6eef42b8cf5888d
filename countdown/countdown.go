// Package countdown provides a restartable, pausable countdown that reports
// its progress as a stream of events
package countdown

import (
	"sync"
	"time"
)

// DefaultInterval is the tick interval used when none is specified.
const DefaultInterval = 100 * time.Millisecond

// Kind identifies a countdown event.
type Kind int

const (
	// Tick reports the time remaining in the current run.
	Tick Kind = iota
	// Elapsed is sent once when the remaining time reaches zero.
	Elapsed
)

func (k Kind) String() string {
	if k == Elapsed {
		return "elapsed"
	}

	return "tick"
}

// Event is emitted on the timer's event channel.
type Event struct {
	Kind      Kind
	Remaining time.Duration
}

// run tracks a single ticking goroutine.
type run struct {
	done     chan struct{}
	finished chan struct{}
}

// Timer counts down from a duration using a wall-clock deadline so that
// remaining time does not drift with tick scheduling.
type Timer struct {
	now       func() time.Time
	events    chan Event
	current   *run
	deadline  time.Time
	interval  time.Duration
	remaining time.Duration
	mu        sync.Mutex
	running   bool
	paused    bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithClock replaces the wall clock used to compute deadlines.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a stopped timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		now:      time.Now,
		interval: DefaultInterval,
		events:   make(chan Event),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Events returns the channel on which ticks and the elapsed signal are
// delivered. The channel is shared by every run of the timer and is never
// closed.
func (t *Timer) Events() <-chan Event {
	return t.events
}

// Interval returns the tick interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Remaining returns the time left as of the last tick, or the frozen value
// while paused.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.remaining
}

// Running reports whether the timer is currently ticking.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.running
}

// Paused reports whether the timer is paused.
func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.paused
}

// Start begins counting down from d, discarding any previous run or paused
// state.
func (t *Timer) Start(d time.Duration) {
	if d < 0 {
		d = 0
	}

	t.mu.Lock()
	prev := t.detach()
	t.mu.Unlock()

	prev.halt()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.paused = false
	t.remaining = d
	t.deadline = t.now().Add(d)
	t.launch()
}

// Pause freezes the remaining time and stops ticking. It does nothing if the
// timer is not running.
func (t *Timer) Pause() {
	t.mu.Lock()

	if !t.running {
		t.mu.Unlock()
		return
	}

	remaining := t.deadline.Sub(t.now())
	if remaining < 0 {
		remaining = 0
	}

	t.remaining = remaining
	t.paused = true
	prev := t.detach()
	t.mu.Unlock()

	prev.halt()
}

// Resume continues a paused countdown from where it stopped. It does nothing
// if the timer is not paused.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused {
		return
	}

	t.paused = false
	t.deadline = t.now().Add(t.remaining)
	t.launch()
}

// Stop halts the timer and resets the remaining time to zero. The elapsed
// event is not sent.
func (t *Timer) Stop() {
	t.mu.Lock()
	prev := t.detach()
	t.paused = false
	t.remaining = 0
	t.mu.Unlock()

	prev.halt()
}

// detach marks the timer as not running and returns the active run, if any.
// The caller must hold t.mu.
func (t *Timer) detach() *run {
	r := t.current
	t.current = nil
	t.running = false

	return r
}

// launch starts a new ticking goroutine for the current deadline. The caller
// must hold t.mu.
func (t *Timer) launch() {
	r := &run{
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	t.current = r
	t.running = true

	go t.tick(r, t.deadline)
}

// halt stops the run and blocks until its goroutine has exited, so that no
// event from it can be delivered afterwards.
func (r *run) halt() {
	if r == nil {
		return
	}

	close(r.done)
	<-r.finished
}

func (t *Timer) tick(r *run, deadline time.Time) {
	defer close(r.finished)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}

		remaining := deadline.Sub(t.now())

		t.mu.Lock()

		if t.current != r {
			t.mu.Unlock()
			return
		}

		if remaining <= 0 {
			// the run stays attached until halted
			t.remaining = 0
			t.running = false
			t.mu.Unlock()

			if !r.send(t.events, Event{Kind: Tick}) {
				return
			}

			r.send(t.events, Event{Kind: Elapsed})

			return
		}

		t.remaining = remaining
		t.mu.Unlock()

		if !r.send(t.events, Event{Kind: Tick, Remaining: remaining}) {
			return
		}
	}
}

// send delivers ev unless the run is halted first.
func (r *run) send(ch chan<- Event, ev Event) bool {
	select {
	case <-r.done:
		return false
	case ch <- ev:
		return true
	}
}
