package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements login and password management against the backend.
type AuthService struct {
	backend  ports.BackendClient
	sessions ports.SessionService
	logger   zerolog.Logger
}

func NewAuthService(backend ports.BackendClient, sessions ports.SessionService, logger zerolog.Logger) *AuthService {
	return &AuthService{backend: backend, sessions: sessions, logger: logger}
}

// Login exchanges enrollment number and password for a backend token and
// establishes the session.
func (s *AuthService) Login(ctx context.Context, sid, enrollmentNumber, password string) (*domain.StudentProfile, error) {
	if enrollmentNumber == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.backend.Login(ctx, enrollmentNumber, password)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Login(ctx, sid, result.Student, result.Token); err != nil {
		return nil, err
	}

	s.logger.Info().Str("enrollment", enrollmentNumber).Msg("student logged in")
	return result.Student, nil
}

// ChangePassword validates the new password locally before any network call:
// a short password or a mismatched confirmation never reaches the backend.
func (s *AuthService) ChangePassword(ctx context.Context, sid, newPassword, confirmPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	return s.backend.CreatePassword(ctx, sid, newPassword)
}

// Profile fetches the authoritative profile and replaces the session's
// cached copy, mirroring what the profile view does on mount.
func (s *AuthService) Profile(ctx context.Context, sid string) (*domain.StudentProfile, error) {
	profile, err := s.backend.GetProfile(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateProfile(ctx, sid, profile); err != nil {
		s.logger.Warn().Err(err).Str("sid", sid).Msg("profile cache update failed")
	}
	return profile, nil
}
