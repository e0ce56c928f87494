package view

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/whatsapp"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
)

type MessageHandler struct {
	api   Clinic
	hub   refresh.Publisher
	today func() dates.Date
}

func NewMessageHandler(api Clinic, hub refresh.Publisher) *MessageHandler {
	return &MessageHandler{api: api, hub: hub, today: dates.Today}
}

func (h *MessageHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/messages", h.List)
	g.POST("/messages/:id/approve", h.Approve)
	g.POST("/messages/generate-daily-summaries", h.GenerateDailySummaries)
}

func (h *MessageHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" {
		// Reject anything outside the closed status set before it
		// reaches the upstream.
		if _, err := whatsapp.ParseStatus(status); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	list, err := h.api.Messages(c.Request().Context(), status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"messages": list,
		"total":    len(list),
	})
}

// Approve releases a drafted message for sending. This is the only path
// from pending approval to sent.
func (h *MessageHandler) Approve(c echo.Context) error {
	id := c.Param("id")
	approved, err := h.api.ApproveMessage(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicMessages, "approved", id))
	return c.JSON(http.StatusOK, approved)
}

func (h *MessageHandler) GenerateDailySummaries(c echo.Context) error {
	date, err := queryDate(c, "date", h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	generated, err := h.api.GenerateDailySummaries(c.Request().Context(), date)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicMessages, "generated", ""))
	return c.JSON(http.StatusOK, map[string]any{"date": date, "generated": generated})
}
