package view

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/upstream"
)

func newHomeHandler(api Clinic) *HomeHandler {
	h := NewHomeHandler(api, nil)
	h.today = func() dates.Date { return dates.NewDate(2025, time.June, 10) }
	return h
}

func TestGetSummary_CombinesParallelReads(t *testing.T) {
	api := &stubClinic{
		patientsByStatusFn: func(st visit.Status, r dates.Range) (*upstream.StatusReport, error) {
			totals := map[visit.Status]int{
				visit.StatusAccepted:    5,
				visit.StatusNotAccepted: 2,
				visit.StatusThinking:    3,
			}
			return &upstream.StatusReport{Total: totals[st]}, nil
		},
		overduePatientsFn: func() (*upstream.OverdueReport, error) {
			return &upstream.OverdueReport{Total: 4}, nil
		},
	}
	h := newHomeHandler(api)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home?granularity=day&anchor=2025-06-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summary HomeSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if summary.Accepted.Total != 5 || summary.NotAccepted.Total != 2 || summary.Thinking.Total != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.OverdueCount != 4 {
		t.Errorf("expected overdue count 4, got %d", summary.OverdueCount)
	}
	if summary.Range.Start != summary.Range.End {
		t.Errorf("expected single-day range, got %+v", summary.Range)
	}
	if summary.Trend != nil {
		t.Error("expected no trend at day granularity")
	}
}

func TestGetSummary_PartialFailureFailsWhole(t *testing.T) {
	api := &stubClinic{
		patientsByStatusFn: func(st visit.Status, r dates.Range) (*upstream.StatusReport, error) {
			if st == visit.StatusThinking {
				return nil, &upstream.Error{Op: "load thinking report", Verb: upstream.VerbLoad, Status: http.StatusInternalServerError}
			}
			return &upstream.StatusReport{Total: 1}, nil
		},
	}
	h := newHomeHandler(api)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home?granularity=day", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetSummary(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", httpErr.Code)
	}
	if fmt.Sprint(httpErr.Message) != "could not load" {
		t.Errorf("unexpected message %v", httpErr.Message)
	}
}

func TestGetSummary_CurrentMonthIncludesTrend(t *testing.T) {
	api := &stubClinic{
		weeklyTrendFn: func(year, month int) (*upstream.TrendWarning, error) {
			if year != 2025 || month != 6 {
				t.Errorf("unexpected trend query %d-%d", year, month)
			}
			return &upstream.TrendWarning{Warning: true, Message: "intake below average"}, nil
		},
	}
	h := newHomeHandler(api)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home?granularity=month&anchor=2025-06-15", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summary HomeSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if summary.Trend == nil || !summary.Trend.Warning {
		t.Errorf("expected trend warning, got %+v", summary.Trend)
	}
}

func TestGetSummary_PastMonthSkipsTrend(t *testing.T) {
	api := &stubClinic{
		weeklyTrendFn: func(year, month int) (*upstream.TrendWarning, error) {
			t.Error("trend must not be fetched for a past month")
			return nil, nil
		},
	}
	h := newHomeHandler(api)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home?granularity=month&anchor=2025-03-15", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetSummary_RejectsUnknownGranularity(t *testing.T) {
	h := newHomeHandler(&stubClinic{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home?granularity=week", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetSummary(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestNavigate(t *testing.T) {
	h := newHomeHandler(&stubClinic{})
	e := echo.New()

	cases := []struct {
		query      string
		wantAnchor string
	}{
		{"granularity=month&anchor=2025-01-31&direction=next", "2025-02-28"},
		{"granularity=month&anchor=2025-03-15&direction=previous", "2025-02-15"},
		{"granularity=day&anchor=2025-03-01&direction=previous", "2025-02-28"},
		{"granularity=year&anchor=2024-02-29&direction=next", "2025-02-28"},
		{"granularity=month&anchor=2020-01-01&direction=today", "2025-06-10"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/home/navigate?"+tc.query, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := h.Navigate(c); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.query, err)
		}

		var resp struct {
			Anchor string `json:"anchor"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: bad response: %v", tc.query, err)
		}
		if resp.Anchor != tc.wantAnchor {
			t.Errorf("%s: expected anchor %s, got %s", tc.query, tc.wantAnchor, resp.Anchor)
		}
	}
}

func TestNavigate_RejectsUnknownDirection(t *testing.T) {
	h := newHomeHandler(&stubClinic{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/home/navigate?direction=sideways", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Navigate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
