package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
	"github.com/grievance-redressal/student-portal/internal/metrics"
)

// SessionCookie is the browser cookie carrying the session id.
const SessionCookie = "portal_session"

const (
	ctxSessionID = "session_id"
	ctxSession   = "session"
)

// WithSession resolves the browser's session id cookie, issuing a fresh one
// when absent, and hydrates the session from durable storage exactly once per
// request, before any handler runs. It never redirects; pair it with Guard on
// routes that require authentication.
func WithSession(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c)
			session, err := sessions.Get(c.Request().Context(), sid)
			if err != nil {
				return err
			}

			c.Set(ctxSessionID, sid)
			c.Set(ctxSession, session)
			return next(c)
		}
	}
}

// Guard gates authenticated-only routes. An unauthenticated navigation is
// replaced with a redirect to the login view; 303 keeps the guarded URL out
// of the history chain so back-navigation cannot loop into it.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get(ctxSession).(domain.Session)
			if !session.Authenticated() {
				metrics.GuardRedirectsTotal.Inc()
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// sessionID reads the session cookie, minting and setting a new id when the
// browser has none yet.
func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// SessionID returns the request's session id as resolved by WithSession.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}

// Session returns the hydrated session for the request. The zero value means
// unauthenticated.
func Session(c echo.Context) domain.Session {
	session, _ := c.Get(ctxSession).(domain.Session)
	return session
}
