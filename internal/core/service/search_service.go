package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
	"github.com/grievance-redressal/student-portal/internal/metrics"
)

// quickActions are the static shortcuts offered by the header search.
var quickActions = []ports.SearchItem{
	{Label: "Create New Grievance", Link: "/add-grievance", Type: "action"},
	{Label: "My Grievances List", Link: "/my-grievances", Type: "action"},
	{Label: "View Profile", Link: "/profile", Type: "action"},
	{Label: "Change Password", Link: "/change-password", Type: "action"},
}

// SearchService answers quick-search queries from a per-session snapshot of
// the student's grievances, refreshing it from the backend when missing.
type SearchService struct {
	backend   ports.BackendClient
	snapshots ports.SnapshotStore
	logger    zerolog.Logger
}

func NewSearchService(backend ports.BackendClient, snapshots ports.SnapshotStore, logger zerolog.Logger) *SearchService {
	return &SearchService{backend: backend, snapshots: snapshots, logger: logger}
}

// Search filters the session's snapshot. No backend round-trip happens per
// query unless the snapshot is cold.
func (s *SearchService) Search(ctx context.Context, sid, query string) ([]ports.SearchGroup, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	grievances, ok := s.snapshots.Get(sid)
	if !ok {
		metrics.SearchQueriesTotal.WithLabelValues("miss").Inc()
		if err := s.Refresh(ctx, sid); err != nil {
			return nil, err
		}
		grievances, _ = s.snapshots.Get(sid)
	} else {
		metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}

	return Filter(query, grievances), nil
}

// Refresh re-fetches the grievance list for the session. The generation
// token makes overlapping refreshes last-issued-wins: a slow older fetch
// resolving after a newer one is dropped.
func (s *SearchService) Refresh(ctx context.Context, sid string) error {
	gen := s.snapshots.Begin(sid)

	grievances, err := s.backend.MyGrievances(ctx, sid)
	if err != nil {
		return err
	}

	if s.snapshots.Complete(sid, gen, grievances) {
		metrics.SnapshotRefreshesTotal.WithLabelValues("applied").Inc()
	} else {
		metrics.SnapshotRefreshesTotal.WithLabelValues("stale").Inc()
		s.logger.Debug().Str("sid", sid).Uint64("gen", gen).Msg("stale snapshot refresh dropped")
	}
	return nil
}

// Invalidate drops the session's snapshot.
func (s *SearchService) Invalidate(sid string) {
	s.snapshots.Invalidate(sid)
}

// Filter is the pure quick-search function: a case-insensitive substring
// match of query against grievance subjects and identifiers, plus the static
// shortcut labels. The raw query is matched as typed, whitespace included;
// trimming applies only to the emptiness check. Groups come back in fixed
// order and only when non-empty.
func Filter(query string, grievances []domain.Grievance) []ports.SearchGroup {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)

	var groups []ports.SearchGroup

	var matched []ports.SearchItem
	for _, g := range grievances {
		if strings.Contains(strings.ToLower(g.Subject), q) || strings.Contains(strings.ToLower(g.ID), q) {
			matched = append(matched, ports.SearchItem{
				Label:    g.Subject,
				SubLabel: "ID: #" + g.SearchID(),
				Link:     "/grievance/" + g.ID,
				Type:     "grievance",
			})
		}
	}
	if len(matched) > 0 {
		groups = append(groups, ports.SearchGroup{Title: "Grievances", Items: matched})
	}

	var actions []ports.SearchItem
	for _, a := range quickActions {
		if strings.Contains(strings.ToLower(a.Label), q) {
			actions = append(actions, a)
		}
	}
	if len(actions) > 0 {
		groups = append(groups, ports.SearchGroup{Title: "Quick Actions", Items: actions})
	}

	return groups
}
