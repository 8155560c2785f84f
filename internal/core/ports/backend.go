package ports

import (
	"context"
	"io"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

// LoginResult is the payload the backend returns from /student/login.
type LoginResult struct {
	Token   string
	Student *domain.StudentProfile
}

// Attachment is an optional file submitted with a new grievance.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateGrievanceInput carries the creation form fields.
type CreateGrievanceInput struct {
	Subject     string
	Description string
	Attachment  *Attachment
}

// BackendClient is the outbound gateway to the grievance backend API. Every
// method except Login re-reads the bearer token for the given session id from
// durable storage immediately before dispatch.
type BackendClient interface {
	Login(ctx context.Context, enrollmentNumber, password string) (*LoginResult, error)
	CreatePassword(ctx context.Context, sid, newPassword string) error
	GetProfile(ctx context.Context, sid string) (*domain.StudentProfile, error)
	CreateGrievance(ctx context.Context, sid string, input CreateGrievanceInput) error
	MyGrievances(ctx context.Context, sid string) ([]domain.Grievance, error)
	GrievanceDetails(ctx context.Context, sid, id string) (*domain.Grievance, error)
	Withdraw(ctx context.Context, sid, id string) error
}
