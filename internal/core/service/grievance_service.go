package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

// GrievanceService implements the student-facing grievance operations by
// delegating to the backend gateway. The backend owns all state; this layer
// only enforces the rules the portal applies before a call goes out.
type GrievanceService struct {
	backend ports.BackendClient
	search  ports.SearchService
	logger  zerolog.Logger
}

func NewGrievanceService(backend ports.BackendClient, search ports.SearchService, logger zerolog.Logger) *GrievanceService {
	return &GrievanceService{backend: backend, search: search, logger: logger}
}

func (s *GrievanceService) List(ctx context.Context, sid string) ([]domain.Grievance, error) {
	return s.backend.MyGrievances(ctx, sid)
}

func (s *GrievanceService) Detail(ctx context.Context, sid, id string) (*domain.Grievance, error) {
	return s.backend.GrievanceDetails(ctx, sid, id)
}

// Create submits the form. Required-field validation happens at the handler;
// the service invalidates the session's search snapshot on success so the
// header search picks up the new record.
func (s *GrievanceService) Create(ctx context.Context, sid string, input ports.CreateGrievanceInput) error {
	if err := s.backend.CreateGrievance(ctx, sid, input); err != nil {
		s.logger.Error().Err(err).Str("subject", input.Subject).Msg("grievance submission failed")
		return err
	}
	s.search.Invalidate(sid)
	s.logger.Info().Str("subject", input.Subject).Bool("attachment", input.Attachment != nil).Msg("grievance submitted")
	return nil
}

// Withdraw deletes a grievance. It is refused without explicit confirmation,
// and for anything that is not still Pending; on backend failure the caller's
// list is left as it was.
func (s *GrievanceService) Withdraw(ctx context.Context, sid, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	g, err := s.backend.GrievanceDetails(ctx, sid, id)
	if err != nil {
		return err
	}
	if !g.Status.Withdrawable() {
		return domain.ErrNotWithdrawable
	}

	if err := s.backend.Withdraw(ctx, sid, id); err != nil {
		return err
	}
	s.search.Invalidate(sid)
	s.logger.Info().Str("grievance_id", id).Msg("grievance withdrawn")
	return nil
}

// Dashboard fetches the list once and derives the stat counters from it.
func (s *GrievanceService) Dashboard(ctx context.Context, sid string) (ports.DashboardStats, []domain.Grievance, error) {
	grievances, err := s.backend.MyGrievances(ctx, sid)
	if err != nil {
		return ports.DashboardStats{}, nil, err
	}
	return Stats(grievances), grievances, nil
}

// Officer projects the assigned handler out of a grievance. Reaching the
// officer view for an unassigned grievance is not an error condition, just a
// redirect back, so the sentinel is mapped to a redirect by the handler.
func (s *GrievanceService) Officer(ctx context.Context, sid, grievanceID string) (*domain.Officer, error) {
	g, err := s.backend.GrievanceDetails(ctx, sid, grievanceID)
	if err != nil {
		return nil, err
	}
	if g.HandledBy == nil {
		return nil, domain.ErrNoOfficerAssigned
	}
	return g.HandledBy, nil
}

// Stats computes the dashboard counters over a grievance list.
func Stats(grievances []domain.Grievance) ports.DashboardStats {
	stats := ports.DashboardStats{Total: len(grievances)}
	for _, g := range grievances {
		switch g.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusResolved:
			stats.Resolved++
		}
	}
	return stats
}
