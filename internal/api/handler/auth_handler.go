package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
	"github.com/grievance-redressal/student-portal/internal/metrics"
)

// AuthHandler serves the login view and the password-change flow.
type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
	warmer   ports.SnapshotWarmer
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionService, warmer ports.SnapshotWarmer) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, warmer: warmer}
}

type loginRequest struct {
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	Password         string `json:"password" validate:"required"`
}

type loginResponse struct {
	Notification string                 `json:"notification"`
	Redirect     string                 `json:"redirect"`
	Student      *domain.StudentProfile `json:"student"`
}

// LoginView renders the login page model. Arriving at the login view clears
// any existing session, matching the portal's logout-on-arrival behaviour.
//
// @Summary      Login view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageViewModel
// @Router       /login [get]
func (h *AuthHandler) LoginView(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageViewModel{
		Page: pageMeta{Title: "Login | Student Portal", Description: "Login to your Student Grievance Portal"},
	})
}

// Login authenticates the student and establishes the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Enrollment number and password/DOB"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please enter Enrollment Number and Password/DOB"})
	}

	student, err := h.auth.Login(c.Request().Context(), sid, req.EnrollmentNumber, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return loginError(c, err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.warmer.Enqueue(sid)
	return c.JSON(http.StatusOK, loginResponse{
		Notification: "Login successful! Welcome back.",
		Redirect:     "/dashboard",
		Student:      student,
	})
}

// Logout clears the session. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"redirect": "/login"})
}

type changePasswordRequest struct {
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ChangePasswordView renders the account-settings page model.
//
// @Summary      Password change view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageViewModel
// @Router       /change-password [get]
func (h *AuthHandler) ChangePasswordView(c echo.Context) error {
	return c.JSON(http.StatusOK, pageViewModel{
		Page: pageMeta{Title: "Account Settings | Student Portal", Description: "Change your password"},
	})
}

// ChangePassword validates and submits the new password. A short password or
// mismatched confirmation is rejected before any backend call.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      changePasswordRequest  true  "New password and confirmation"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.auth.ChangePassword(c.Request().Context(), sid, req.NewPassword, req.ConfirmPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Password must be at least 6 characters"})
		case errors.Is(err, domain.ErrPasswordMismatch):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Passwords do not match"})
		}
		return backendFailure(c, err, "Failed to update password")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"notification": "Password updated successfully!",
		"redirect":     "/dashboard",
	})
}

// loginError maps a failed login to the response the view surfaces.
func loginError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	return backendFailure(c, err, "Login failed. Please try again.")
}
