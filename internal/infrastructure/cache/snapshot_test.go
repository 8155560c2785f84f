package cache

import (
	"testing"
	"time"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

func grievances(subjects ...string) []domain.Grievance {
	out := make([]domain.Grievance, 0, len(subjects))
	for i, s := range subjects {
		out = append(out, domain.Grievance{ID: string(rune('a' + i)), Subject: s})
	}
	return out
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store := NewSnapshotStore(time.Minute)

	if _, ok := store.Get("sid-1"); ok {
		t.Fatalf("cold store must miss")
	}

	gen := store.Begin("sid-1")
	if !store.Complete("sid-1", gen, grievances("WiFi")) {
		t.Fatalf("latest generation must apply")
	}

	got, ok := store.Get("sid-1")
	if !ok || len(got) != 1 || got[0].Subject != "WiFi" {
		t.Fatalf("unexpected snapshot: %v %v", got, ok)
	}
}

func TestSnapshotStore_StaleGenerationDropped(t *testing.T) {
	store := NewSnapshotStore(time.Minute)

	slow := store.Begin("sid-1")
	fast := store.Begin("sid-1")

	if !store.Complete("sid-1", fast, grievances("newer")) {
		t.Fatalf("latest refresh must apply")
	}
	// The slower, older refresh resolves afterwards and must be dropped.
	if store.Complete("sid-1", slow, grievances("older")) {
		t.Fatalf("stale refresh must be dropped")
	}

	got, ok := store.Get("sid-1")
	if !ok || got[0].Subject != "newer" {
		t.Fatalf("stale refresh clobbered the snapshot: %v", got)
	}
}

func TestSnapshotStore_InvalidateVoidsInFlight(t *testing.T) {
	store := NewSnapshotStore(time.Minute)

	gen := store.Begin("sid-1")
	store.Invalidate("sid-1")

	if store.Complete("sid-1", gen, grievances("late")) {
		t.Fatalf("refresh begun before invalidation must not apply")
	}
	if _, ok := store.Get("sid-1"); ok {
		t.Fatalf("snapshot must stay cold after invalidation")
	}
}

func TestSnapshotStore_TTLExpiry(t *testing.T) {
	store := NewSnapshotStore(time.Minute)
	fixed := time.Now()
	store.now = func() time.Time { return fixed }

	gen := store.Begin("sid-1")
	store.Complete("sid-1", gen, grievances("WiFi"))

	if _, ok := store.Get("sid-1"); !ok {
		t.Fatalf("fresh snapshot must hit")
	}

	store.now = func() time.Time { return fixed.Add(2 * time.Minute) }
	if _, ok := store.Get("sid-1"); ok {
		t.Fatalf("expired snapshot must miss")
	}
}

func TestSnapshotStore_SessionsAreIndependent(t *testing.T) {
	store := NewSnapshotStore(time.Minute)

	gen1 := store.Begin("sid-1")
	store.Complete("sid-1", gen1, grievances("one"))
	store.Invalidate("sid-2")

	if _, ok := store.Get("sid-1"); !ok {
		t.Fatalf("invalidating another session must not affect sid-1")
	}
}
