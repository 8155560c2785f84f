package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

// SearchHandler serves the header quick search.
type SearchHandler struct {
	service ports.SearchService
}

func NewSearchHandler(service ports.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

type searchResponse struct {
	Query  string              `json:"query"`
	Groups []ports.SearchGroup `json:"groups"`
}

// Search filters the session's grievance snapshot and the static quick
// actions by case-insensitive substring match. An empty or whitespace-only
// query returns no groups, which closes the results panel.
//
// @Summary      Header quick search
// @Tags         search
// @Produce      json
// @Security     SessionCookie
// @Param        q    query     string  false  "Free-text query"
// @Success      200  {object}  searchResponse
// @Failure      502  {object}  map[string]string
// @Router       /search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	groups, err := h.service.Search(c.Request().Context(), sid, query)
	if err != nil {
		return backendFailure(c, err, "Search is unavailable")
	}

	return c.JSON(http.StatusOK, searchResponse{Query: query, Groups: groups})
}
