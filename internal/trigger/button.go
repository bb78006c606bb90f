package trigger

import (
	"sync/atomic"
	"time"

	"github.com/couchcryptid/river-monitor/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Button debounces falling edges from a push button.
//
// Edge is safe to call from any goroutine, including a signal handler
// standing in for an interrupt: it does a constant amount of work, never
// blocks and never touches the display, store or network. Accepted edges are
// counted; the main loop collects them with Drain after a value arrives on
// Requests.
type Button struct {
	clock   clockwork.Clock
	window  time.Duration
	metrics *observability.Metrics

	lastFire atomic.Int64 // unix nanos of the last accepted edge, 0 if none
	pending  atomic.Int64
	signal   chan struct{}
}

// NewButton creates a Button that ignores edges arriving within window of
// the last accepted one.
func NewButton(clock clockwork.Clock, window time.Duration, metrics *observability.Metrics) *Button {
	return &Button{
		clock:   clock,
		window:  window,
		metrics: metrics,
		signal:  make(chan struct{}, 1),
	}
}

// Edge records a falling edge. It returns true when the edge was accepted as
// a report request, false when it fell inside the debounce window.
func (b *Button) Edge() bool {
	now := b.clock.Now().UnixNano()
	last := b.lastFire.Load()

	if last != 0 && time.Duration(now-last) <= b.window {
		b.metrics.ButtonEdges.WithLabelValues("ignored").Inc()
		return false
	}
	// A concurrent edge that won the swap owns this window.
	if !b.lastFire.CompareAndSwap(last, now) {
		b.metrics.ButtonEdges.WithLabelValues("ignored").Inc()
		return false
	}

	b.pending.Add(1)
	b.metrics.ButtonEdges.WithLabelValues("accepted").Inc()
	select {
	case b.signal <- struct{}{}:
	default:
	}
	return true
}

// Requests delivers a value whenever at least one accepted edge is pending.
// Several edges may collapse into one value; Drain reports the real count.
func (b *Button) Requests() <-chan struct{} {
	return b.signal
}

// Drain returns the number of accepted edges since the last call and resets it.
func (b *Button) Drain() int {
	return int(b.pending.Swap(0))
}
