package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

// SessionService implements the session lifecycle over a durable repository.
type SessionService struct {
	repo   ports.SessionRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewSessionService(repo ports.SessionRepository, logger zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, logger: logger, now: time.Now}
}

// Login persists the credential and the profile under their two storage keys.
// The token is written first so a failure after it still leaves a usable
// (profile-less) authenticated session. A nil profile is legal: the backend
// may answer login with a token only, and the profile view hydrates the
// missing copy later.
func (s *SessionService) Login(ctx context.Context, sid string, profile *domain.StudentProfile, token string) error {
	if err := s.repo.SaveToken(ctx, sid, token); err != nil {
		return err
	}
	if profile == nil {
		s.logger.Info().Str("sid", sid).Msg("session established without profile")
		return nil
	}
	if err := s.repo.SaveProfile(ctx, sid, profile); err != nil {
		return err
	}
	s.logger.Info().Str("sid", sid).Str("enrollment", profile.EnrollmentNumber).Msg("session established")
	return nil
}

// Logout clears credential and profile unconditionally. Idempotent.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	return s.repo.Clear(ctx, sid)
}

// UpdateProfile replaces the cached profile; the token is untouched.
func (s *SessionService) UpdateProfile(ctx context.Context, sid string, profile *domain.StudentProfile) error {
	return s.repo.SaveProfile(ctx, sid, profile)
}

// Get hydrates the session from durable storage. A token whose exp claim has
// passed is reported as an unauthenticated session; the front end cannot
// verify the signature (it never holds the backend's secret), so only the
// expiry is inspected.
func (s *SessionService) Get(ctx context.Context, sid string) (domain.Session, error) {
	token, err := s.repo.Token(ctx, sid)
	if err != nil {
		return domain.Session{}, err
	}
	if token == "" {
		return domain.Session{}, nil
	}
	if s.expired(token) {
		s.logger.Debug().Str("sid", sid).Msg("stored token expired")
		return domain.Session{}, nil
	}

	profile, err := s.repo.Profile(ctx, sid)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, Profile: profile}, nil
}

func (s *SessionService) Preferences(ctx context.Context, sid string) (domain.Preferences, error) {
	return s.repo.Preferences(ctx, sid)
}

func (s *SessionService) SavePreferences(ctx context.Context, sid string, prefs domain.Preferences) error {
	return s.repo.SavePreferences(ctx, sid, prefs)
}

// expired reports whether the bearer token carries an exp claim in the past.
// Tokens that do not parse as JWTs, or carry no exp, are passed through and
// left for the backend to reject.
func (s *SessionService) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.now())
}
