package view

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
	"github.com/clinicdash/clinicdash/internal/upstream"
)

// HomeSummary is the combined range report the home view renders. It is
// only ever built whole: if any of the parallel reads fails the summary
// is abandoned rather than served with gaps.
type HomeSummary struct {
	Granularity  string                 `json:"granularity"`
	Anchor       dates.Date             `json:"anchor"`
	Range        dates.Range            `json:"range"`
	Accepted     *upstream.StatusReport `json:"accepted"`
	NotAccepted  *upstream.StatusReport `json:"not_accepted"`
	Thinking     *upstream.StatusReport `json:"thinking"`
	OverdueCount int                    `json:"overdue_count"`
	Trend        *upstream.TrendWarning `json:"trend,omitempty"`
}

type HomeHandler struct {
	api   Clinic
	snap  Snapshot[HomeSummary]
	today func() dates.Date
}

func NewHomeHandler(api Clinic, hub *refresh.Hub) *HomeHandler {
	h := &HomeHandler{api: api, today: dates.Today}
	if hub != nil {
		hub.AddListener(h, refresh.TopicVisits, refresh.TopicFollowUps)
	}
	return h
}

// Invalidate drops the held summary when a visit or follow-up changes.
func (h *HomeHandler) Invalidate(refresh.Event) {
	h.snap.Invalidate()
}

func (h *HomeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/home", h.GetSummary)
	g.GET("/home/navigate", h.Navigate)
}

// GetSummary resolves the requested range and issues the three status
// reads plus the overdue count in parallel. All must succeed.
func (h *HomeHandler) GetSummary(c echo.Context) error {
	gran, anchor, err := h.rangeParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r := dates.Resolve(anchor, gran)

	summary := HomeSummary{
		Granularity: gran.String(),
		Anchor:      anchor,
		Range:       r,
	}

	gen := h.snap.Generation()
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		report, err := h.api.PatientsByStatus(ctx, visit.StatusAccepted, r)
		summary.Accepted = report
		return err
	})
	g.Go(func() error {
		report, err := h.api.PatientsByStatus(ctx, visit.StatusNotAccepted, r)
		summary.NotAccepted = report
		return err
	})
	g.Go(func() error {
		report, err := h.api.PatientsByStatus(ctx, visit.StatusThinking, r)
		summary.Thinking = report
		return err
	})
	g.Go(func() error {
		overdue, err := h.api.OverduePatients(ctx)
		if err == nil {
			summary.OverdueCount = overdue.Total
		}
		return err
	})

	today := h.today()
	if gran == dates.Month && anchor.Year == today.Year && anchor.Month == today.Month {
		g.Go(func() error {
			trend, err := h.api.WeeklyTrend(ctx, anchor.Year, int(anchor.Month))
			summary.Trend = trend
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return httpError(err)
	}

	h.snap.Apply(gen, summary)
	return c.JSON(http.StatusOK, summary)
}

// Navigate computes the next, previous, or today anchor for the range
// picker without touching the upstream.
func (h *HomeHandler) Navigate(c echo.Context) error {
	gran, anchor, err := h.rangeParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch dir := c.QueryParam("direction"); dir {
	case "next":
		anchor = dates.Advance(anchor, gran)
	case "previous":
		anchor = dates.Retreat(anchor, gran)
	case "today":
		anchor = h.today()
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "direction must be next, previous, or today")
	}

	r := dates.Resolve(anchor, gran)
	return c.JSON(http.StatusOK, map[string]any{
		"granularity": gran.String(),
		"anchor":      anchor,
		"range":       r,
	})
}

func (h *HomeHandler) rangeParams(c echo.Context) (dates.Granularity, dates.Date, error) {
	gran := dates.Day
	if raw := c.QueryParam("granularity"); raw != "" {
		parsed, err := dates.ParseGranularity(raw)
		if err != nil {
			return 0, dates.Date{}, err
		}
		gran = parsed
	}
	anchor, err := queryDate(c, "anchor", h.today())
	if err != nil {
		return 0, dates.Date{}, err
	}
	return gran, anchor, nil
}
