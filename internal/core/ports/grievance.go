package ports

import (
	"context"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

// DashboardStats are the counters shown on the dashboard, computed from the
// fetched grievance list.
type DashboardStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

type GrievanceService interface {
	List(ctx context.Context, sid string) ([]domain.Grievance, error)
	Detail(ctx context.Context, sid, id string) (*domain.Grievance, error)
	Create(ctx context.Context, sid string, input CreateGrievanceInput) error
	// Withdraw requires confirmed=true and a Pending grievance.
	Withdraw(ctx context.Context, sid, id string, confirmed bool) error
	Dashboard(ctx context.Context, sid string) (DashboardStats, []domain.Grievance, error)
	// Officer returns the handler assigned to the grievance, or
	// domain.ErrNoOfficerAssigned when none is.
	Officer(ctx context.Context, sid, grievanceID string) (*domain.Officer, error)
}

type AuthService interface {
	Login(ctx context.Context, sid, enrollmentNumber, password string) (*domain.StudentProfile, error)
	ChangePassword(ctx context.Context, sid, newPassword, confirmPassword string) error
	// Profile fetches the authoritative profile and refreshes the session's
	// cached copy.
	Profile(ctx context.Context, sid string) (*domain.StudentProfile, error)
}
