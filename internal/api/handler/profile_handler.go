package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

// ProfileHandler serves the student profile view and the UI preferences.
type ProfileHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
}

func NewProfileHandler(auth ports.AuthService, sessions ports.SessionService) *ProfileHandler {
	return &ProfileHandler{auth: auth, sessions: sessions}
}

type profileViewModel struct {
	Page    pageMeta               `json:"page"`
	Profile *domain.StudentProfile `json:"profile"`
}

// View fetches the authoritative profile from the backend. The session's
// cached copy is refreshed as a side effect.
//
// @Summary      Profile view
// @Tags         profile
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  profileViewModel
// @Failure      502  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) View(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	profile, err := h.auth.Profile(c.Request().Context(), sid)
	if err != nil {
		return backendFailure(c, err, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, profileViewModel{
		Page:    pageMeta{Title: "Profile | Student Portal", Description: "Student Profile details"},
		Profile: profile,
	})
}

// Preferences returns the session's theme and accent color.
//
// @Summary      UI preferences
// @Tags         profile
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  domain.Preferences
// @Router       /preferences [get]
func (h *ProfileHandler) Preferences(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	prefs, err := h.sessions.Preferences(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// SavePreferences persists theme and accent color for the session. The accent
// must be one of the preset names.
//
// @Summary      Save UI preferences
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      domain.Preferences  true  "Theme and accent color"
// @Success      200   {object}  domain.Preferences
// @Failure      400   {object}  map[string]string
// @Router       /preferences [put]
func (h *ProfileHandler) SavePreferences(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var prefs domain.Preferences
	if err := c.Bind(&prefs); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if prefs.Theme != "light" && prefs.Theme != "dark" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "theme must be light or dark"})
	}
	if !domain.ValidAccent(prefs.Accent) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown accent color"})
	}

	if err := h.sessions.SavePreferences(c.Request().Context(), sid, prefs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}
