package trigger

import (
	"context"
	"os"
	"os/signal"
)

// ListenSignals turns each delivery of sigs into a button edge until ctx is
// done. On a host without a physical button, SIGUSR1 plays the press.
// The signals are registered before ListenSignals returns; the returned
// channel closes once the listener has stopped.
func ListenSignals(ctx context.Context, b *Button, sigs ...os.Signal) <-chan struct{} {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				b.Edge()
			}
		}
	}()
	return done
}
