package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	appmw "github.com/grievance-redressal/student-portal/internal/api/middleware"
	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

// pageMeta mirrors the title/description pair every view announces.
type pageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// pageViewModel is the minimal view model for pages with no fetched data.
type pageViewModel struct {
	Page pageMeta `json:"page"`
}

// ctxSessionID extracts the session id injected by the session middleware and
// performs a fast-fail check before any service call: an empty id means the
// middleware never ran on this route.
func ctxSessionID(c echo.Context) (string, error) {
	sid := appmw.SessionID(c)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, nil
}

// backendFailure renders a backend or transport error as the transient
// notification the views surface: the backend-provided message when there is
// one, the caller's fallback string otherwise. Never fatal.
func backendFailure(c echo.Context, err error, fallback string) error {
	var be *domain.BackendError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = fallback
		}
		return c.JSON(be.StatusCode, map[string]string{"error": msg})
	}
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fallback})
	}
	return err
}
