// Package store holds the latest published report, the only state shared
// between the main loop, the report listener and the ops server.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/river-monitor/internal/domain"
)

// Reports keeps a single immutable Report. Publish calls are serialized by a
// mutex; Snapshot loads the current pointer and never sees a partial write.
type Reports struct {
	mu     sync.Mutex
	latest atomic.Pointer[domain.Report]
}

// NewReports returns an empty store.
func NewReports() *Reports {
	return &Reports{}
}

// Publish replaces the latest report.
func (s *Reports) Publish(r domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest.Store(&r)
}

// Snapshot returns a copy of the latest report and whether one was published.
// Before the first publish it returns the zero Report labelled SEGURO.
func (s *Reports) Snapshot() (domain.Report, bool) {
	r := s.latest.Load()
	if r == nil {
		return domain.Report{StatusLabel: domain.Safe.Label()}, false
	}
	return *r, true
}
