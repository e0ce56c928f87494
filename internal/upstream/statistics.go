package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
)

// MonthlyStats is the upstream's aggregate report for one month.
type MonthlyStats struct {
	Year                 int            `json:"year"`
	Month                int            `json:"month"`
	TotalPatients        int            `json:"total_patients"`
	Accepted             int            `json:"accepted"`
	NotAccepted          int            `json:"not_accepted"`
	Thinking             int            `json:"thinking"`
	AcceptanceRate       float64        `json:"acceptance_rate"`
	VisitTypes           map[string]int `json:"visit_types"`
	DoctorStats          map[string]int `json:"doctor_stats"`
	FamilyGroupStats     map[string]int `json:"family_group_stats"`
	ProfessionGroupStats map[string]int `json:"profession_group_stats"`
	RevisitCount         int            `json:"revisit_count"`
}

// TrendWarning reports whether the current week's intake fell below the
// month's running average.
type TrendWarning struct {
	Warning      bool    `json:"warning"`
	Message      string  `json:"message"`
	CurrentCount int     `json:"current_count"`
	Average      float64 `json:"average"`
	Threshold    float64 `json:"threshold"`
}

func monthQuery(year, month int) url.Values {
	return url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strconv.Itoa(month)},
	}
}

// MonthlyStatistics returns the aggregate report for one month.
func (c *Client) MonthlyStatistics(ctx context.Context, year, month int) (*MonthlyStats, error) {
	var stats MonthlyStats
	if err := c.do(ctx, http.MethodGet, "/statistics/monthly", monthQuery(year, month), nil, &stats, VerbLoad, "load monthly statistics"); err != nil {
		return nil, err
	}
	return &stats, nil
}

// WeeklyTrend returns the intake trend warning for one month. The
// upstream only raises the warning for the current calendar month.
func (c *Client) WeeklyTrend(ctx context.Context, year, month int) (*TrendWarning, error) {
	var trend TrendWarning
	if err := c.do(ctx, http.MethodGet, "/statistics/weekly-trend", monthQuery(year, month), nil, &trend, VerbLoad, "load weekly trend"); err != nil {
		return nil, err
	}
	return &trend, nil
}

// ExportDailyReport fetches the rendered daily report as an opaque blob.
func (c *Client) ExportDailyReport(ctx context.Context, date dates.Date) ([]byte, string, error) {
	q := url.Values{"date": {date.String()}}
	return c.doRaw(ctx, "/export/daily-report-pdf", q, "export daily report")
}

// ExportMonthlyStats fetches the rendered monthly report as an opaque blob.
func (c *Client) ExportMonthlyStats(ctx context.Context, year, month int) ([]byte, string, error) {
	return c.doRaw(ctx, "/export/monthly-stats-pdf", monthQuery(year, month), "export monthly statistics")
}
