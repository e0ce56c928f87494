// Package view serves the dashboard's HTTP endpoints. Handlers hold no
// state of record: every request reads fresh from the clinic API, derives
// counts locally, and reports mutations through the refresh hub.
package view

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/doctor"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/domain/whatsapp"
	"github.com/clinicdash/clinicdash/internal/upstream"
)

// Clinic is the slice of the upstream client the dashboard consumes.
type Clinic interface {
	DailyPatients(ctx context.Context, date dates.Date) ([]visit.Visit, error)
	PatientsByStatus(ctx context.Context, st visit.Status, r dates.Range) (*upstream.StatusReport, error)
	OverduePatients(ctx context.Context) (*upstream.OverdueReport, error)
	CreatePatient(ctx context.Context, form visit.Form) (*visit.Visit, error)
	UpdatePatient(ctx context.Context, id string, form visit.Form) (*visit.Visit, error)
	DeletePatient(ctx context.Context, id string) error
	MarkRevisit(ctx context.Context, id string, date dates.Date) error
	SendReminder(ctx context.Context, id string) error
	VisitTypes(ctx context.Context) ([]string, error)
	FamilyGroups(ctx context.Context) ([]string, error)
	ProfessionGroups(ctx context.Context) ([]string, error)

	DoctorNames(ctx context.Context) ([]string, error)
	AllDoctors(ctx context.Context) ([]doctor.Doctor, error)
	CreateDoctor(ctx context.Context, form doctor.Form) (*doctor.Doctor, error)
	UpdateDoctor(ctx context.Context, id string, form doctor.Form) (*doctor.Doctor, error)
	DeactivateDoctor(ctx context.Context, id string) error
	ActivateDoctor(ctx context.Context, id string) error

	FollowUps(ctx context.Context) ([]followup.FollowUp, error)
	UpdateFollowUpStatus(ctx context.Context, id string, st followup.Status) error

	Messages(ctx context.Context, status string) ([]whatsapp.Message, error)
	ApproveMessage(ctx context.Context, id string) (*whatsapp.Message, error)
	GenerateDailySummaries(ctx context.Context, date dates.Date) (int, error)

	MonthlyStatistics(ctx context.Context, year, month int) (*upstream.MonthlyStats, error)
	WeeklyTrend(ctx context.Context, year, month int) (*upstream.TrendWarning, error)
	ExportDailyReport(ctx context.Context, date dates.Date) ([]byte, string, error)
	ExportMonthlyStats(ctx context.Context, year, month int) ([]byte, string, error)
}

var _ Clinic = (*upstream.Client)(nil)

// httpError translates an upstream failure into the response the
// dashboard shows: the verb-class notice, with the upstream's own 4xx
// status when it gave one and 502 otherwise.
func httpError(err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		status := http.StatusBadGateway
		if ue.Status >= 400 && ue.Status < 500 {
			status = ue.Status
		}
		return echo.NewHTTPError(status, ue.Notice())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// queryDate parses an optional date query parameter, defaulting to today.
func queryDate(c echo.Context, param string, fallback dates.Date) (dates.Date, error) {
	raw := c.QueryParam(param)
	if raw == "" {
		return fallback, nil
	}
	return dates.ParseDate(raw)
}
