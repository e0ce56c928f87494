package view

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
)

// revisitDefaultDays is how far out a return appointment lands when the
// caller does not pick a date.
const revisitDefaultDays = 7

// DailyPage is the intake table for one day: the billable rows surviving
// the group filters, their counts, and the day's raw record total.
type DailyPage struct {
	Date         dates.Date    `json:"date"`
	Patients     []visit.Visit `json:"patients"`
	Summary      visit.Summary `json:"summary"`
	TotalRecords int           `json:"total_records"`
}

// FormOptions feeds the intake form's selection lists.
type FormOptions struct {
	Doctors          []string `json:"doctors"`
	VisitTypes       []string `json:"visit_types"`
	FamilyGroups     []string `json:"family_groups"`
	ProfessionGroups []string `json:"profession_groups"`
}

type DailyHandler struct {
	api   Clinic
	agg   visit.Aggregator
	hub   refresh.Publisher
	today func() dates.Date
}

func NewDailyHandler(api Clinic, agg visit.Aggregator, hub refresh.Publisher) *DailyHandler {
	return &DailyHandler{api: api, agg: agg, hub: hub, today: dates.Today}
}

func (h *DailyHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/daily", h.GetPage)
	g.GET("/daily/options", h.GetOptions)
	g.POST("/daily/visits", h.CreateVisit)
	g.PUT("/daily/visits/:id", h.UpdateVisit)
	g.DELETE("/daily/visits/:id", h.DeleteVisit)
	g.PATCH("/daily/visits/:id/revisit", h.MarkRevisit)
	g.POST("/daily/visits/:id/reminder", h.SendReminder)
}

func (h *DailyHandler) GetPage(c echo.Context) error {
	date, err := queryDate(c, "date", h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patients, err := h.api.DailyPatients(c.Request().Context(), date)
	if err != nil {
		return httpError(err)
	}

	filter := visit.Filter{
		FamilyGroup:     c.QueryParam("family_group"),
		ProfessionGroup: c.QueryParam("profession_group"),
	}
	kept, summary := h.agg.Apply(patients, filter)

	return c.JSON(http.StatusOK, DailyPage{
		Date:         date,
		Patients:     kept,
		Summary:      summary,
		TotalRecords: len(patients),
	})
}

// GetOptions loads the four selection lists in parallel. A partial result
// is useless to the form, so any failure fails the whole call.
func (h *DailyHandler) GetOptions(c echo.Context) error {
	var opts FormOptions

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		opts.Doctors, err = h.api.DoctorNames(ctx)
		return err
	})
	g.Go(func() (err error) {
		opts.VisitTypes, err = h.api.VisitTypes(ctx)
		return err
	})
	g.Go(func() (err error) {
		opts.FamilyGroups, err = h.api.FamilyGroups(ctx)
		return err
	})
	g.Go(func() (err error) {
		opts.ProfessionGroups, err = h.api.ProfessionGroups(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, opts)
}

func (h *DailyHandler) CreateVisit(c echo.Context) error {
	var form visit.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.api.CreatePatient(c.Request().Context(), form)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicVisits, "created", created.ID))
	if form.Status == visit.StatusThinking && !form.IsRevisit {
		// The upstream schedules a follow-up for thinking patients.
		h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicFollowUps, "created", created.ID))
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *DailyHandler) UpdateVisit(c echo.Context) error {
	var form visit.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	updated, err := h.api.UpdatePatient(c.Request().Context(), id, form)
	if err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicVisits, "updated", id))
	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicFollowUps, "updated", id))
	return c.JSON(http.StatusOK, updated)
}

// DeleteVisit removes a visit after explicit confirmation. Without
// confirm=true no upstream call is made.
func (h *DailyHandler) DeleteVisit(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return echo.NewHTTPError(http.StatusBadRequest, "deletion requires confirmation")
	}

	id := c.Param("id")
	if err := h.api.DeletePatient(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicVisits, "deleted", id))
	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicFollowUps, "deleted", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *DailyHandler) MarkRevisit(c echo.Context) error {
	date := h.today().AddDays(revisitDefaultDays)
	if raw := c.QueryParam("revisit_date"); raw != "" {
		parsed, err := dates.ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		date = parsed
	}

	id := c.Param("id")
	if err := h.api.MarkRevisit(c.Request().Context(), id, date); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicVisits, "revisit", id))
	return c.JSON(http.StatusOK, map[string]any{"id": id, "revisit_date": date})
}

func (h *DailyHandler) SendReminder(c echo.Context) error {
	id := c.Param("id")
	if err := h.api.SendReminder(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.hub.Publish(c.Request().Context(), refresh.NewEvent(refresh.TopicMessages, "queued", id))
	return c.NoContent(http.StatusAccepted)
}
