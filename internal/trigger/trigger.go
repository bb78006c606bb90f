// Package trigger provides the two report stimuli: a fixed-interval timer
// and a debounced push button. Neither generates reports itself; they only
// signal the main loop.
package trigger

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Periodic fires on a fixed interval regardless of what happened before.
type Periodic struct {
	ticker clockwork.Ticker
}

// NewPeriodic starts a ticker on clock.
func NewPeriodic(clock clockwork.Clock, interval time.Duration) *Periodic {
	return &Periodic{ticker: clock.NewTicker(interval)}
}

// C delivers one value per elapsed interval. Ticks are dropped, not queued,
// if the receiver falls behind.
func (p *Periodic) C() <-chan time.Time {
	return p.ticker.Chan()
}

// Stop releases the ticker.
func (p *Periodic) Stop() {
	p.ticker.Stop()
}
