// Package web serves the report page over a minimal HTTP/1.1 listener.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/couchcryptid/river-monitor/internal/domain"
	"github.com/couchcryptid/river-monitor/internal/observability"
)

const (
	readBufferSize = 2048
	readTimeout    = 5 * time.Second
	writeTimeout   = 5 * time.Second
	requestTimeout = 5 * time.Second
)

// ReportRequester generates a report on demand.
type ReportRequester interface {
	RequestReport(ctx context.Context) (domain.Report, error)
}

// Snapshotter returns the latest published report.
type Snapshotter interface {
	Snapshot() (domain.Report, bool)
}

// Server handles one connection at a time: read once, answer, close.
type Server struct {
	listener  net.Listener
	requester ReportRequester
	reports   Snapshotter
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewServer serves on an already bound listener.
func NewServer(ln net.Listener, requester ReportRequester, reports Snapshotter, logger *slog.Logger, metrics *observability.Metrics) *Server {
	return &Server{
		listener:  ln,
		requester: requester,
		reports:   reports,
		logger:    logger,
		metrics:   metrics,
	}
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes the listener.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("report server listening", "addr", s.listener.Addr().String())

	stop := context.AfterFunc(ctx, func() { s.listener.Close() })
	defer stop()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if err := s.handle(ctx, conn); err != nil {
			s.metrics.RejectedConnections.Inc()
			s.logger.Debug("connection rejected", "remote", conn.RemoteAddr().String(), "error", err)
		}
		conn.Close()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return err
	}

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if n == 0 {
		return errMalformedRequest
	}

	req, err := parseRequestLine(buf[:n])
	if err != nil {
		return err
	}
	s.metrics.WebRequests.WithLabelValues(metricPath(req.path)).Inc()
	s.logger.Debug("request", "method", req.method, "path", req.path)

	s.route(ctx, req)

	report, _ := s.reports.Snapshot()
	resp, err := renderPage(report)
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if _, err := conn.Write(resp); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
	return nil
}

func (s *Server) route(ctx context.Context, req requestLine) {
	if req.method != "GET" {
		return
	}

	switch req.path {
	case PathSendReport:
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		if _, err := s.requester.RequestReport(reqCtx); err != nil {
			s.logger.Warn("on-demand report failed", "error", err)
		}
	case PathUpdateStatus, PathBuzzerAlert, PathLEDAlert:
		// Reserved for alert delivery; the page is served unchanged.
	}
}
