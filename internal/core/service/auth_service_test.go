package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

type stubBackend struct {
	loginResult     *ports.LoginResult
	loginErr        error
	profile         *domain.StudentProfile
	grievances      []domain.Grievance
	detail          *domain.Grievance
	detailErr       error
	listErr         error
	createErr       error
	withdrawErr     error
	passwordCalls   int
	createCalls     int
	withdrawCalls   int
	lastCreateInput ports.CreateGrievanceInput
}

func (b *stubBackend) Login(_ context.Context, enrollmentNumber, password string) (*ports.LoginResult, error) {
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	return b.loginResult, nil
}

func (b *stubBackend) CreatePassword(_ context.Context, _, _ string) error {
	b.passwordCalls++
	return nil
}

func (b *stubBackend) GetProfile(_ context.Context, _ string) (*domain.StudentProfile, error) {
	return b.profile, nil
}

func (b *stubBackend) CreateGrievance(_ context.Context, _ string, input ports.CreateGrievanceInput) error {
	b.createCalls++
	b.lastCreateInput = input
	return b.createErr
}

func (b *stubBackend) MyGrievances(_ context.Context, _ string) ([]domain.Grievance, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.grievances, nil
}

func (b *stubBackend) GrievanceDetails(_ context.Context, _, _ string) (*domain.Grievance, error) {
	if b.detailErr != nil {
		return nil, b.detailErr
	}
	return b.detail, nil
}

func (b *stubBackend) Withdraw(_ context.Context, _, _ string) error {
	b.withdrawCalls++
	return b.withdrawErr
}

func TestAuthService_Login_Success(t *testing.T) {
	backend := &stubBackend{loginResult: &ports.LoginResult{
		Token:   "tok-1",
		Student: &domain.StudentProfile{Name: "Asha", EnrollmentNumber: "0201CS221234"},
	}}
	sessions := NewSessionService(newStubSessionRepo(), zerolog.Nop())
	svc := NewAuthService(backend, sessions, zerolog.Nop())

	student, err := svc.Login(context.Background(), "sid-1", "0201CS221234", "01012000")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if student == nil || student.EnrollmentNumber != "0201CS221234" {
		t.Fatalf("unexpected student: %+v", student)
	}

	session, _ := sessions.Get(context.Background(), "sid-1")
	if session.Token != "tok-1" {
		t.Fatalf("session not established, token %q", session.Token)
	}
}

func TestAuthService_Login_NoStudentInResponse(t *testing.T) {
	backend := &stubBackend{loginResult: &ports.LoginResult{Token: "tok-123"}}
	sessions := NewSessionService(newStubSessionRepo(), zerolog.Nop())
	svc := NewAuthService(backend, sessions, zerolog.Nop())

	student, err := svc.Login(context.Background(), "sid-1", "0201CS221234", "01012000")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if student != nil {
		t.Fatalf("expected no student, got %+v", student)
	}

	session, _ := sessions.Get(context.Background(), "sid-1")
	if !session.Authenticated() {
		t.Fatalf("token-only login response must still establish the session")
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	backend := &stubBackend{}
	sessions := NewSessionService(newStubSessionRepo(), zerolog.Nop())
	svc := NewAuthService(backend, sessions, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "sid-1", "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "sid-1", "0201CS221234", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BackendRejected(t *testing.T) {
	backend := &stubBackend{loginErr: domain.ErrInvalidCredentials}
	sessions := NewSessionService(newStubSessionRepo(), zerolog.Nop())
	svc := NewAuthService(backend, sessions, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "sid-1", "0201CS221234", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if session, _ := sessions.Get(context.Background(), "sid-1"); session.Authenticated() {
		t.Fatalf("failed login must not establish a session")
	}
}

func TestAuthService_ChangePassword_TooShort(t *testing.T) {
	backend := &stubBackend{}
	svc := NewAuthService(backend, NewSessionService(newStubSessionRepo(), zerolog.Nop()), zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), "sid-1", "12345", "12345"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if backend.passwordCalls != 0 {
		t.Fatalf("short password must not reach the backend")
	}
}

func TestAuthService_ChangePassword_Mismatch(t *testing.T) {
	backend := &stubBackend{}
	svc := NewAuthService(backend, NewSessionService(newStubSessionRepo(), zerolog.Nop()), zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), "sid-1", "secret1", "secret2"); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if backend.passwordCalls != 0 {
		t.Fatalf("mismatched confirmation must not reach the backend")
	}
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	backend := &stubBackend{}
	svc := NewAuthService(backend, NewSessionService(newStubSessionRepo(), zerolog.Nop()), zerolog.Nop())

	if err := svc.ChangePassword(context.Background(), "sid-1", "secret1", "secret1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if backend.passwordCalls != 1 {
		t.Fatalf("expected exactly one backend call, got %d", backend.passwordCalls)
	}
}

func TestAuthService_Profile_RefreshesSessionCopy(t *testing.T) {
	backend := &stubBackend{profile: &domain.StudentProfile{Name: "Asha", EnrollmentNumber: "0201CS221234"}}
	repo := newStubSessionRepo()
	sessions := NewSessionService(repo, zerolog.Nop())
	_ = sessions.Login(context.Background(), "sid-1", &domain.StudentProfile{Name: "stale"}, "tok-1")

	svc := NewAuthService(backend, sessions, zerolog.Nop())
	profile, err := svc.Profile(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.Name != "Asha" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if repo.profiles["sid-1"].Name != "Asha" {
		t.Fatalf("session cache not refreshed")
	}
}
