package ports

import (
	"context"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

// SearchItem is one entry in a quick-search result group.
type SearchItem struct {
	Label    string `json:"label"`
	SubLabel string `json:"subLabel,omitempty"`
	Link     string `json:"link"`
	Type     string `json:"type"`
}

// SearchGroup is an ordered category of quick-search results. Only non-empty
// groups are returned, "Grievances" before "Quick Actions".
type SearchGroup struct {
	Title string       `json:"title"`
	Items []SearchItem `json:"items"`
}

// SearchService answers header quick-search queries against the session's
// grievance snapshot plus the static shortcut list.
type SearchService interface {
	Search(ctx context.Context, sid, query string) ([]SearchGroup, error)
	// Refresh re-fetches the session's snapshot from the backend.
	Refresh(ctx context.Context, sid string) error
	// Invalidate drops the session's snapshot so the next search re-fetches.
	Invalidate(sid string)
}

// SnapshotWarmer schedules a background snapshot refresh for a session after
// an action that changed its grievance list.
type SnapshotWarmer interface {
	Enqueue(sid string)
}

// SnapshotStore caches the fetched grievance list per session. Refreshes are
// generation-guarded: Complete applies its result only when gen is still the
// latest one issued for that session, so an overlapping slow refresh can
// never clobber a newer one.
type SnapshotStore interface {
	Get(sid string) ([]domain.Grievance, bool)
	Begin(sid string) uint64
	Complete(sid string, gen uint64, grievances []domain.Grievance) bool
	Invalidate(sid string)
}
