// Package connectivity brings the node onto the network before the report
// listener starts: link association, address acquisition and listener bind,
// retried with bounded exponential backoff.
package connectivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/couchcryptid/river-monitor/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// ErrExhausted is returned when every bring-up attempt failed.
var ErrExhausted = errors.New("connectivity: attempts exhausted")

const maxRetryDelay = 5 * time.Second

// Credentials are handed to the link on association.
type Credentials struct {
	SSID     string
	Password string
}

// Link associates with a network and acquires an address.
type Link interface {
	Associate(ctx context.Context, creds Credentials) (netip.Addr, error)
}

// Options bounds the bring-up.
type Options struct {
	Attempts   int
	RetryDelay time.Duration
	ListenAddr string
}

// Session is an established network presence.
type Session struct {
	Addr     netip.Addr
	Listener net.Listener
}

// Port returns the TCP port the listener is bound to.
func (s *Session) Port() int {
	if tcp, ok := s.Listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// BringUp associates the link and binds the report listener. A failure in
// either step counts as one attempt.
func BringUp(ctx context.Context, link Link, creds Credentials, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Session, error) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := opts.RetryDelay

	metrics.NetworkUp.Set(0)
	for attempt := 1; attempt <= attempts; attempt++ {
		metrics.ConnectAttempts.Inc()

		s, err := tryBringUp(ctx, link, creds, opts.ListenAddr)
		if err == nil {
			metrics.NetworkUp.Set(1)
			logger.Info("network up", "addr", s.Addr, "listen_addr", s.Listener.Addr().String(), "attempt", attempt)
			return s, nil
		}

		logger.Warn("network bring-up failed", "attempt", attempt, "max_attempts", attempts, "error", err)
		if attempt == attempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return nil, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxRetryDelay)
	}
	return nil, ErrExhausted
}

func tryBringUp(ctx context.Context, link Link, creds Credentials, listenAddr string) (*Session, error) {
	addr, err := link.Associate(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("associate: %w", err)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", listenAddr, err)
	}
	return &Session{Addr: addr, Listener: ln}, nil
}
