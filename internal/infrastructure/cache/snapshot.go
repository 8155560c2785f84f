package cache

import (
	"sync"
	"time"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

const defaultTTL = 30 * time.Second

// SnapshotStore keeps the per-session grievance snapshot the header search
// filters over. Entries are transient and in-memory only; the backend remains
// the source of truth.
//
// Refreshes are generation-guarded: Begin hands out a monotonically
// increasing generation per session, and Complete applies its result only
// when that generation is still the latest. Two overlapping refreshes for the
// same session therefore resolve last-issued-wins regardless of which HTTP
// response arrives first.
type SnapshotStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	grievances []domain.Grievance
	gen        uint64
	fetchedAt  time.Time
	populated  bool
}

// NewSnapshotStore creates a store whose entries expire after ttl.
// If ttl <= 0, defaultTTL is used.
func NewSnapshotStore(ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SnapshotStore{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the cached snapshot for sid, or false when it is missing,
// invalidated, or older than the TTL.
func (s *SnapshotStore) Get(sid string) ([]domain.Grievance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok || !e.populated || s.now().Sub(e.fetchedAt) > s.ttl {
		return nil, false
	}
	return e.grievances, true
}

// Begin registers the start of a refresh and returns its generation.
func (s *SnapshotStore) Begin(sid string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok {
		e = &entry{}
		s.entries[sid] = e
	}
	e.gen++
	return e.gen
}

// Complete stores the refreshed snapshot if gen is still the latest for sid.
// It reports whether the result was applied.
func (s *SnapshotStore) Complete(sid string, gen uint64, grievances []domain.Grievance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok || e.gen != gen {
		return false
	}
	e.grievances = grievances
	e.fetchedAt = s.now()
	e.populated = true
	return true
}

// Invalidate drops the snapshot for sid. In-flight refreshes begun earlier
// are also voided: their generation can no longer match.
func (s *SnapshotStore) Invalidate(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sid]; ok {
		e.gen++
		e.populated = false
		e.grievances = nil
	}
}
