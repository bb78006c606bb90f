package store

import (
	"sync"
	"testing"

	"github.com/couchcryptid/river-monitor/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_EmptySnapshot(t *testing.T) {
	s := NewReports()
	r, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Zero(t, r.ID)
	assert.Equal(t, "SEGURO", r.StatusLabel)
}

func TestReports_PublishSnapshot(t *testing.T) {
	s := NewReports()
	want := domain.Report{ID: 4, CurrentLevel: 6.1, StatusLabel: "ALERTA", Status: domain.Alert}
	s.Publish(want)

	got, ok := s.Snapshot()
	require.True(t, ok)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestReports_SnapshotIsCopy(t *testing.T) {
	s := NewReports()
	s.Publish(domain.Report{ID: 1, StatusLabel: "SEGURO"})

	r, _ := s.Snapshot()
	r.StatusLabel = "PERIGO"

	again, _ := s.Snapshot()
	assert.Equal(t, "SEGURO", again.StatusLabel)
}

// Readers racing writers must only ever see reports whose fields agree with
// each other.
func TestReports_ConcurrentConsistency(t *testing.T) {
	s := NewReports()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := uint64(w*500 + i + 1)
				s.Publish(domain.Report{ID: id, CurrentLevel: float64(id), RainIntensity: float64(id) * 2})
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				snap, ok := s.Snapshot()
				if !ok {
					continue
				}
				assert.Equal(t, float64(snap.ID), snap.CurrentLevel)
				assert.Equal(t, float64(snap.ID)*2, snap.RainIntensity)
			}
		}()
	}

	wg.Wait()
	_, ok := s.Snapshot()
	assert.True(t, ok)
}
