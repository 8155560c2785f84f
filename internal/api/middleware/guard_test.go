package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

type stubSessions struct {
	sessions map[string]domain.Session
}

func (s *stubSessions) Login(_ context.Context, sid string, p *domain.StudentProfile, token string) error {
	s.sessions[sid] = domain.Session{Token: token, Profile: p}
	return nil
}
func (s *stubSessions) Logout(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}
func (s *stubSessions) UpdateProfile(_ context.Context, sid string, p *domain.StudentProfile) error {
	sess := s.sessions[sid]
	sess.Profile = p
	s.sessions[sid] = sess
	return nil
}
func (s *stubSessions) Get(_ context.Context, sid string) (domain.Session, error) {
	return s.sessions[sid], nil
}
func (s *stubSessions) Preferences(_ context.Context, _ string) (domain.Preferences, error) {
	return domain.DefaultPreferences(), nil
}
func (s *stubSessions) SavePreferences(_ context.Context, _ string, _ domain.Preferences) error {
	return nil
}

func guardedRequest(t *testing.T, sessions *stubSessions, cookie string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := WithSession(sessions)(Guard()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}))

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGuard_UnauthenticatedRedirectsToLogin(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]domain.Session{}}

	rec, called := guardedRequest(t, sessions, "sid-anon")
	if called {
		t.Fatalf("guarded handler must not run without a token")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestGuard_AuthenticatedPassesThrough(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]domain.Session{
		"sid-1": {Token: "tok-1", Profile: &domain.StudentProfile{Name: "Asha"}},
	}}

	rec, called := guardedRequest(t, sessions, "sid-1")
	if !called {
		t.Fatalf("guarded handler must run with a token present")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWithSession_MintsCookieWhenAbsent(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]domain.Session{}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sid string
	handler := WithSession(sessions)(func(c echo.Context) error {
		sid = SessionID(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if sid == "" {
		t.Fatalf("session id not injected")
	}
	found := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.Value == sid {
			found = true
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

func TestWithSession_ExposesHydratedSession(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]domain.Session{
		"sid-1": {Token: "tok-1"},
	}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := WithSession(sessions)(func(c echo.Context) error {
		if !Session(c).Authenticated() {
			t.Fatalf("expected authenticated session in context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
