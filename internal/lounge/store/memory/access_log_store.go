package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

// AccessLogStore is an in-memory append-only log of verification attempts.
type AccessLogStore struct {
	mu      sync.Mutex
	entries []types.AccessLogEntry
}

func NewAccessLogStore(seed []types.AccessLogEntry) *AccessLogStore {
	s := &AccessLogStore{}
	s.entries = append(s.entries, seed...)
	return s
}

func (s *AccessLogStore) Append(_ context.Context, e types.AccessLogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *AccessLogStore) List(_ context.Context, limit int) ([]types.AccessLogEntry, error) {
	s.mu.Lock()
	out := make([]types.AccessLogEntry, len(s.entries))
	copy(out, s.entries)
	s.mu.Unlock()

	// Newest first; ties keep reverse insertion order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *AccessLogStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// Entries returns a copy of all entries in insertion order. Test-only helper.
func (s *AccessLogStore) Entries() []types.AccessLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AccessLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
