package view

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/upstream"
)

// MonthlyPage combines the aggregate report and the trend warning for
// the statistics view.
type MonthlyPage struct {
	Stats *upstream.MonthlyStats `json:"stats"`
	Trend *upstream.TrendWarning `json:"trend"`
}

type StatsHandler struct {
	api   Clinic
	today func() dates.Date
}

func NewStatsHandler(api Clinic) *StatsHandler {
	return &StatsHandler{api: api, today: dates.Today}
}

func (h *StatsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/statistics", h.GetMonthly)
	g.GET("/export/daily", h.ExportDaily)
	g.GET("/export/monthly", h.ExportMonthly)
}

// GetMonthly loads the month's aggregate and trend in parallel; both are
// required for the page.
func (h *StatsHandler) GetMonthly(c echo.Context) error {
	year, month, err := h.monthParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var page MonthlyPage
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		page.Stats, err = h.api.MonthlyStatistics(ctx, year, month)
		return err
	})
	g.Go(func() (err error) {
		page.Trend, err = h.api.WeeklyTrend(ctx, year, month)
		return err
	})

	if err := g.Wait(); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// ExportDaily streams the upstream's rendered daily report unchanged.
func (h *StatsHandler) ExportDaily(c echo.Context) error {
	date, err := queryDate(c, "date", h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blob, ctype, err := h.api.ExportDailyReport(c.Request().Context(), date)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=daily-report-%s.pdf", date))
	return c.Blob(http.StatusOK, ctype, blob)
}

// ExportMonthly streams the upstream's rendered monthly report unchanged.
func (h *StatsHandler) ExportMonthly(c echo.Context) error {
	year, month, err := h.monthParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blob, ctype, err := h.api.ExportMonthlyStats(c.Request().Context(), year, month)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=monthly-stats-%d-%02d.pdf", year, month))
	return c.Blob(http.StatusOK, ctype, blob)
}

func (h *StatsHandler) monthParams(c echo.Context) (int, int, error) {
	today := h.today()
	year, month := today.Year, int(today.Month)

	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", raw)
		}
		year = parsed
	}
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", raw)
		}
		month = parsed
	}
	return year, month, nil
}
