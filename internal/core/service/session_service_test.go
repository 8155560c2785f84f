package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

type stubSessionRepo struct {
	tokens   map[string]string
	profiles map[string]*domain.StudentProfile
	prefs    map[string]domain.Preferences
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		tokens:   make(map[string]string),
		profiles: make(map[string]*domain.StudentProfile),
		prefs:    make(map[string]domain.Preferences),
	}
}

func (r *stubSessionRepo) SaveToken(_ context.Context, sid, token string) error {
	r.tokens[sid] = token
	return nil
}

func (r *stubSessionRepo) SaveProfile(_ context.Context, sid string, p *domain.StudentProfile) error {
	r.profiles[sid] = p
	return nil
}

func (r *stubSessionRepo) Token(_ context.Context, sid string) (string, error) {
	return r.tokens[sid], nil
}

func (r *stubSessionRepo) Profile(_ context.Context, sid string) (*domain.StudentProfile, error) {
	return r.profiles[sid], nil
}

func (r *stubSessionRepo) Clear(_ context.Context, sid string) error {
	delete(r.tokens, sid)
	delete(r.profiles, sid)
	return nil
}

func (r *stubSessionRepo) Preferences(_ context.Context, sid string) (domain.Preferences, error) {
	if p, ok := r.prefs[sid]; ok {
		return p, nil
	}
	return domain.DefaultPreferences(), nil
}

func (r *stubSessionRepo) SavePreferences(_ context.Context, sid string, p domain.Preferences) error {
	r.prefs[sid] = p
	return nil
}

func TestSessionService_LoginThenGet(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, zerolog.Nop())

	profile := &domain.StudentProfile{Name: "Asha", EnrollmentNumber: "0201CS221234"}
	if err := svc.Login(context.Background(), "sid-1", profile, "tok-abc"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	session, err := svc.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !session.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if session.Profile == nil || session.Profile.EnrollmentNumber != "0201CS221234" {
		t.Fatalf("unexpected profile: %+v", session.Profile)
	}
}

func TestSessionService_LogoutClearsBothKeys(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, zerolog.Nop())

	_ = svc.Login(context.Background(), "sid-1", &domain.StudentProfile{Name: "Asha"}, "tok-abc")
	if err := svc.Logout(context.Background(), "sid-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if tok := repo.tokens["sid-1"]; tok != "" {
		t.Fatalf("token survived logout: %q", tok)
	}
	if p := repo.profiles["sid-1"]; p != nil {
		t.Fatalf("profile survived logout: %+v", p)
	}

	// Idempotent: a second logout on a cleared session is a no-op.
	if err := svc.Logout(context.Background(), "sid-1"); err != nil {
		t.Fatalf("repeated Logout returned error: %v", err)
	}
}

func TestSessionService_LoginWithoutProfile(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, zerolog.Nop())

	if err := svc.Login(context.Background(), "sid-1", nil, "tok-abc"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	session, err := svc.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !session.Authenticated() {
		t.Fatalf("token-only login must still authenticate")
	}
	if session.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", session.Profile)
	}
	if _, ok := repo.profiles["sid-1"]; ok {
		t.Fatalf("nil profile must not be written to storage")
	}
}

func TestSessionService_GetUnauthenticated(t *testing.T) {
	svc := NewSessionService(newStubSessionRepo(), zerolog.Nop())

	session, err := svc.Get(context.Background(), "sid-unknown")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("expected unauthenticated session, got %+v", session)
	}
}

func TestSessionService_TokenWithoutProfile(t *testing.T) {
	repo := newStubSessionRepo()
	repo.tokens["sid-1"] = "tok-only"
	svc := NewSessionService(repo, zerolog.Nop())

	session, err := svc.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !session.Authenticated() {
		t.Fatalf("token-only session must still authenticate")
	}
	if session.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", session.Profile)
	}
}

func TestSessionService_ExpiredTokenIsUnauthenticated(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, zerolog.Nop())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	repo.tokens["sid-1"] = signed

	session, err := svc.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("expired token must read as unauthenticated")
	}
}

func TestSessionService_OpaqueTokenPassesThrough(t *testing.T) {
	repo := newStubSessionRepo()
	repo.tokens["sid-1"] = "not-a-jwt"
	svc := NewSessionService(repo, zerolog.Nop())

	session, err := svc.Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !session.Authenticated() {
		t.Fatalf("opaque tokens are left for the backend to reject")
	}
}

func TestSessionService_UpdateProfileKeepsToken(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, zerolog.Nop())

	_ = svc.Login(context.Background(), "sid-1", &domain.StudentProfile{Name: "Asha"}, "tok-abc")
	if err := svc.UpdateProfile(context.Background(), "sid-1", &domain.StudentProfile{Name: "Asha Rao"}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	if repo.tokens["sid-1"] != "tok-abc" {
		t.Fatalf("token changed by profile update")
	}
	if repo.profiles["sid-1"].Name != "Asha Rao" {
		t.Fatalf("profile not replaced")
	}
}
