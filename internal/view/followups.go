package view

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
)

// FollowUpItem pairs a follow-up with its derived display status.
type FollowUpItem struct {
	followup.FollowUp
	EffectiveStatus string `json:"effective_status"`
}

// FollowUpPage lists follow-ups with tallies recomputed from the full
// list, independent of the filter applied to the rows.
type FollowUpPage struct {
	FollowUps []FollowUpItem `json:"followups"`
	Tally     followup.Tally `json:"tally"`
}

type FollowUpHandler struct {
	api   Clinic
	hub   refresh.Publisher
	today func() dates.Date
}

func NewFollowUpHandler(api Clinic, hub refresh.Publisher) *FollowUpHandler {
	return &FollowUpHandler{api: api, hub: hub, today: dates.Today}
}

func (h *FollowUpHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/followups", h.List)
	g.GET("/followups/overdue", h.ListOverdue)
	g.POST("/followups/:id/complete", h.Complete)
}

func (h *FollowUpHandler) List(c echo.Context) error {
	list, err := h.api.FollowUps(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	today := h.today()
	filter := c.QueryParam("filter")
	if filter != "" && filter != "pending" && filter != "overdue" && filter != "completed" {
		return echo.NewHTTPError(http.StatusBadRequest, "filter must be pending, overdue, or completed")
	}

	page := FollowUpPage{
		FollowUps: make([]FollowUpItem, 0, len(list)),
		Tally:     followup.Count(list, today),
	}
	for _, f := range list {
		eff := followup.Classify(f, today)
		if filter != "" && eff.String() != filter {
			continue
		}
		page.FollowUps = append(page.FollowUps, FollowUpItem{FollowUp: f, EffectiveStatus: eff.String()})
	}

	return c.JSON(http.StatusOK, page)
}

func (h *FollowUpHandler) ListOverdue(c echo.Context) error {
	report, err := h.api.OverduePatients(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Complete marks a follow-up done. The transition is one-way; there is no
// reopen endpoint.
func (h *FollowUpHandler) Complete(c echo.Context) error {
	id := c.Param("id")
	if err := h.api.UpdateFollowUpStatus(c.Request().Context(), id, followup.StatusCompleted); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicFollowUps, "completed", id))
	return c.NoContent(http.StatusNoContent)
}
