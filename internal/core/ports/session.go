package ports

import (
	"context"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

// SessionRepository is the durable storage backing a browser session. Token
// and profile live under two distinct keys; a crash between the two writes
// leaves a token-only session, which is a legal transient state.
type SessionRepository interface {
	SaveToken(ctx context.Context, sid, token string) error
	SaveProfile(ctx context.Context, sid string, profile *domain.StudentProfile) error
	// Token returns "" without error when the session holds no credential.
	Token(ctx context.Context, sid string) (string, error)
	// Profile returns nil without error when no profile is cached.
	Profile(ctx context.Context, sid string) (*domain.StudentProfile, error)
	// Clear removes the credential and cached profile. Idempotent.
	Clear(ctx context.Context, sid string) error
	Preferences(ctx context.Context, sid string) (domain.Preferences, error)
	SavePreferences(ctx context.Context, sid string, prefs domain.Preferences) error
}

// SessionService owns the session lifecycle: login persists, logout clears,
// Get hydrates the current state before any guarded handler runs.
type SessionService interface {
	Login(ctx context.Context, sid string, profile *domain.StudentProfile, token string) error
	Logout(ctx context.Context, sid string) error
	UpdateProfile(ctx context.Context, sid string, profile *domain.StudentProfile) error
	Get(ctx context.Context, sid string) (domain.Session, error)
	Preferences(ctx context.Context, sid string) (domain.Preferences, error)
	SavePreferences(ctx context.Context, sid string, prefs domain.Preferences) error
}
