package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

// GrievanceHandler serves the dashboard, the grievance list/detail views, the
// creation form, and the withdraw action.
type GrievanceHandler struct {
	service ports.GrievanceService
	warmer  ports.SnapshotWarmer
}

func NewGrievanceHandler(service ports.GrievanceService, warmer ports.SnapshotWarmer) *GrievanceHandler {
	return &GrievanceHandler{service: service, warmer: warmer}
}

// --- View models ---

type grievanceRow struct {
	ID          string          `json:"_id"`
	ShortID     string          `json:"shortId"`
	Subject     string          `json:"subject"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	HandledBy   *domain.Officer `json:"handledBy,omitempty"`
	CanWithdraw bool            `json:"canWithdraw"`
}

type dashboardViewModel struct {
	Page   pageMeta             `json:"page"`
	Stats  ports.DashboardStats `json:"stats"`
	Recent []grievanceRow       `json:"recent"`
}

type grievanceListViewModel struct {
	Page       pageMeta       `json:"page"`
	Grievances []grievanceRow `json:"grievances"`
}

type grievanceDetailViewModel struct {
	Page      pageMeta         `json:"page"`
	Grievance domain.Grievance `json:"grievance"`
	ShortID   string           `json:"shortId"`
}

type officerViewModel struct {
	Page    pageMeta       `json:"page"`
	Officer domain.Officer `json:"officer"`
}

// Dashboard renders the stat counters and recent activity, both computed
// from the freshly fetched grievance list.
//
// @Summary      Dashboard view
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardViewModel
// @Failure      502  {object}  map[string]string
// @Router       /dashboard [get]
func (h *GrievanceHandler) Dashboard(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	stats, grievances, err := h.service.Dashboard(c.Request().Context(), sid)
	if err != nil {
		return backendFailure(c, err, "Failed to fetch grievances")
	}

	return c.JSON(http.StatusOK, dashboardViewModel{
		Page:   pageMeta{Title: "Dashboard | Student Portal", Description: "Student Grievance Dashboard"},
		Stats:  stats,
		Recent: rows(grievances),
	})
}

// List renders the grievance list. The withdraw action is exposed per row
// only while the status is still Pending.
//
// @Summary      Grievance list view
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  grievanceListViewModel
// @Failure      502  {object}  map[string]string
// @Router       /my-grievances [get]
func (h *GrievanceHandler) List(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	grievances, err := h.service.List(c.Request().Context(), sid)
	if err != nil {
		return backendFailure(c, err, "Failed to fetch grievances")
	}

	return c.JSON(http.StatusOK, grievanceListViewModel{
		Page:       pageMeta{Title: "My Grievances | Student Portal", Description: "Track your submitted grievances"},
		Grievances: rows(grievances),
	})
}

// Detail renders one grievance. On failure the view model sends the student
// back to the list instead of stranding them.
//
// @Summary      Grievance detail view
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Grievance id"
// @Success      200  {object}  grievanceDetailViewModel
// @Failure      404  {object}  map[string]string
// @Router       /grievance/{id} [get]
func (h *GrievanceHandler) Detail(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	g, err := h.service.Detail(c.Request().Context(), sid, c.Param("id"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrGrievanceNotFound) {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]string{
			"error":    "Failed to load grievance details",
			"redirect": "/my-grievances",
		})
	}

	return c.JSON(http.StatusOK, grievanceDetailViewModel{
		Page:      pageMeta{Title: "Grievance Details | Student Portal", Description: "View grievance details"},
		Grievance: *g,
		ShortID:   g.ShortID(),
	})
}

// CreateView renders the empty creation form model.
//
// @Summary      Creation form view
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  pageViewModel
// @Router       /add-grievance [get]
func (h *GrievanceHandler) CreateView(c echo.Context) error {
	return c.JSON(http.StatusOK, pageViewModel{
		Page: pageMeta{Title: "New Grievance | Student Portal", Description: "Post a new grievance"},
	})
}

type createForm struct {
	Subject     string `form:"subject" validate:"required"`
	Description string `form:"description" validate:"required"`
}

// Create submits the creation form. The attachment form file is optional;
// when present the upstream submission goes out as multipart.
//
// @Summary      Submit a new grievance
// @Tags         grievances
// @Accept       mpfd
// @Produce      json
// @Security     SessionCookie
// @Param        subject     formData  string  true   "Subject"
// @Param        description formData  string  true   "Detailed description"
// @Param        attachment  formData  file    false  "Optional attachment"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /add-grievance [post]
func (h *GrievanceHandler) Create(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var form createForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&form); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	input := ports.CreateGrievanceInput{
		Subject:     form.Subject,
		Description: form.Description,
	}

	if fh, err := c.FormFile("attachment"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read attachment"})
		}
		defer f.Close()
		input.Attachment = &ports.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		}
	}

	if err := h.service.Create(c.Request().Context(), sid, input); err != nil {
		return backendFailure(c, err, "Failed to submit grievance")
	}

	h.warmer.Enqueue(sid)
	return c.JSON(http.StatusCreated, map[string]string{
		"notification": "Grievance submitted successfully!",
		"redirect":     "/my-grievances",
	})
}

// Withdraw deletes a Pending grievance after explicit confirmation and
// returns the re-fetched list. On backend failure the list is not touched.
//
// @Summary      Withdraw a pending grievance
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Param        id       path   string  true  "Grievance id"
// @Param        confirm  query  bool    true  "Must be true; the UI asks the student first"
// @Success      200  {object}  grievanceListViewModel
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /grievance/{id} [delete]
func (h *GrievanceHandler) Withdraw(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	confirmed := c.QueryParam("confirm") == "true"
	if err := h.service.Withdraw(c.Request().Context(), sid, c.Param("id"), confirmed); err != nil {
		switch {
		case errors.Is(err, domain.ErrConfirmationRequired):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Are you sure you want to withdraw this grievance?"})
		case errors.Is(err, domain.ErrNotWithdrawable):
			return c.JSON(http.StatusConflict, map[string]string{"error": "only pending grievances can be withdrawn"})
		case errors.Is(err, domain.ErrGrievanceNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "grievance not found"})
		}
		return backendFailure(c, err, "Failed to withdraw")
	}

	h.warmer.Enqueue(sid)
	grievances, err := h.service.List(c.Request().Context(), sid)
	if err != nil {
		return backendFailure(c, err, "Failed to fetch grievances")
	}

	return c.JSON(http.StatusOK, grievanceListViewModel{
		Page:       pageMeta{Title: "My Grievances | Student Portal", Description: "Track your submitted grievances"},
		Grievances: rows(grievances),
	})
}

// OfficerProfile renders the officer handling a grievance. Reached for a
// grievance with no assigned officer, it redirects back rather than erroring.
//
// @Summary      Officer profile view
// @Tags         grievances
// @Produce      json
// @Security     SessionCookie
// @Param        grievance  query  string  true  "Grievance id"
// @Success      200  {object}  officerViewModel
// @Failure      303  {object}  nil
// @Router       /officer-profile [get]
func (h *GrievanceHandler) OfficerProfile(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	grievanceID := c.QueryParam("grievance")
	if grievanceID == "" {
		return c.Redirect(http.StatusSeeOther, "/my-grievances")
	}

	officer, err := h.service.Officer(c.Request().Context(), sid, grievanceID)
	if err != nil {
		if errors.Is(err, domain.ErrNoOfficerAssigned) || errors.Is(err, domain.ErrGrievanceNotFound) {
			return c.Redirect(http.StatusSeeOther, "/my-grievances")
		}
		return backendFailure(c, err, "Failed to load officer profile")
	}

	return c.JSON(http.StatusOK, officerViewModel{
		Page:    pageMeta{Title: "Officer Profile | Student Portal", Description: "View grievance officer details"},
		Officer: *officer,
	})
}

func rows(grievances []domain.Grievance) []grievanceRow {
	out := make([]grievanceRow, 0, len(grievances))
	for _, g := range grievances {
		out = append(out, grievanceRow{
			ID:          g.ID,
			ShortID:     g.ShortID(),
			Subject:     g.Subject,
			Status:      string(g.Status),
			CreatedAt:   g.CreatedAt,
			Deadline:    g.Deadline,
			HandledBy:   g.HandledBy,
			CanWithdraw: g.Status.Withdrawable(),
		})
	}
	return out
}
