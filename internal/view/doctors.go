package view

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdash/clinicdash/internal/domain/doctor"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
)

type DoctorHandler struct {
	api Clinic
	hub refresh.Publisher
}

func NewDoctorHandler(api Clinic, hub refresh.Publisher) *DoctorHandler {
	return &DoctorHandler{api: api, hub: hub}
}

func (h *DoctorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/doctors", h.ListNames)
	g.GET("/doctors/all", h.ListAll)
	g.POST("/doctors", h.Create)
	g.PUT("/doctors/:id", h.Update)
	g.DELETE("/doctors/:id", h.Deactivate)
	g.POST("/doctors/:id/activate", h.Activate)
}

func (h *DoctorHandler) ListNames(c echo.Context) error {
	names, err := h.api.DoctorNames(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"doctors": names})
}

func (h *DoctorHandler) ListAll(c echo.Context) error {
	roster, err := h.api.AllDoctors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"doctors":      roster,
		"active_names": doctor.ActiveNames(roster),
	})
}

func (h *DoctorHandler) Create(c echo.Context) error {
	var form doctor.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.api.CreateDoctor(c.Request().Context(), form)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicDoctors, "created", created.ID))
	return c.JSON(http.StatusCreated, created)
}

func (h *DoctorHandler) Update(c echo.Context) error {
	var form doctor.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	updated, err := h.api.UpdateDoctor(c.Request().Context(), id, form)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicDoctors, "updated", id))
	return c.JSON(http.StatusOK, updated)
}

// Deactivate soft-deletes a doctor after explicit confirmation. The
// record survives for historical statistics.
func (h *DoctorHandler) Deactivate(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return echo.NewHTTPError(http.StatusBadRequest, "deactivation requires confirmation")
	}

	id := c.Param("id")
	if err := h.api.DeactivateDoctor(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicDoctors, "deactivated", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *DoctorHandler) Activate(c echo.Context) error {
	id := c.Param("id")
	if err := h.api.ActivateDoctor(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicDoctors, "activated", id))
	return c.NoContent(http.StatusNoContent)
}
