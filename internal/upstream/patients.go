package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
)

// StatusReport is the upstream response for one status over a date range.
type StatusReport struct {
	Total    int           `json:"total"`
	Patients []visit.Visit `json:"patients"`
	Stats    StatusStats   `json:"stats"`
}

// StatusStats breaks a status report down by billable type and doctor.
type StatusStats struct {
	Implant     int            `json:"implant"`
	Kontrol     int            `json:"kontrol"`
	Muayene     int            `json:"muayene"`
	DoctorStats map[string]int `json:"doctor_stats"`
}

// OverdueReport lists follow-ups whose date has passed without completion.
type OverdueReport struct {
	Total   int                 `json:"total"`
	Overdue []followup.FollowUp `json:"overdue_patients"`
}

var statusPaths = map[visit.Status]string{
	visit.StatusAccepted:    "/patients/accepted",
	visit.StatusNotAccepted: "/patients/not-accepted",
	visit.StatusThinking:    "/patients/thinking",
}

// DailyPatients returns every visit recorded for one calendar day.
func (c *Client) DailyPatients(ctx context.Context, date dates.Date) ([]visit.Visit, error) {
	var resp struct {
		Patients []visit.Visit `json:"patients"`
	}
	q := url.Values{"date": {date.String()}}
	if err := c.do(ctx, http.MethodGet, "/patients/daily", q, nil, &resp, VerbLoad, "load daily patients"); err != nil {
		return nil, err
	}
	return resp.Patients, nil
}

// PatientsByStatus returns the range report for one workflow status.
func (c *Client) PatientsByStatus(ctx context.Context, st visit.Status, r dates.Range) (*StatusReport, error) {
	path, ok := statusPaths[st]
	if !ok {
		return nil, &Error{Op: "load status report", Verb: VerbLoad, Err: fmt.Errorf("no report endpoint for status %d", int(st))}
	}
	q := url.Values{
		"start_date": {r.Start.String()},
		"end_date":   {r.End.String()},
	}
	var report StatusReport
	if err := c.do(ctx, http.MethodGet, path, q, nil, &report, VerbLoad, "load "+st.String()+" report"); err != nil {
		return nil, err
	}
	return &report, nil
}

// OverduePatients returns all follow-ups currently past due.
func (c *Client) OverduePatients(ctx context.Context) (*OverdueReport, error) {
	var report OverdueReport
	if err := c.do(ctx, http.MethodGet, "/patients/overdue", nil, nil, &report, VerbLoad, "load overdue follow-ups"); err != nil {
		return nil, err
	}
	return &report, nil
}

// CreatePatient submits a new visit. Callers validate the form first; a
// form that fails validation never reaches this method.
func (c *Client) CreatePatient(ctx context.Context, form visit.Form) (*visit.Visit, error) {
	var created visit.Visit
	if err := c.do(ctx, http.MethodPost, "/patients", nil, form, &created, VerbSave, "create visit"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePatient replaces an existing visit.
func (c *Client) UpdatePatient(ctx context.Context, id string, form visit.Form) (*visit.Visit, error) {
	var updated visit.Visit
	if err := c.do(ctx, http.MethodPut, "/patients/"+id, nil, form, &updated, VerbSave, "update visit"); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePatient removes a visit. The upstream cascades the removal to the
// visit's follow-ups and drafted messages.
func (c *Client) DeletePatient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/patients/"+id, nil, nil, nil, VerbDelete, "delete visit")
}

// MarkRevisit flags a visit for a return appointment on the given date.
func (c *Client) MarkRevisit(ctx context.Context, id string, date dates.Date) error {
	q := url.Values{"revisit_date": {date.String()}}
	return c.do(ctx, http.MethodPatch, "/patients/"+id+"/revisit", q, nil, nil, VerbSave, "mark revisit")
}

// SendReminder queues a follow-up reminder message for the visit's
// patient. The message starts pending approval like any other draft.
func (c *Client) SendReminder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/patients/"+id+"/send-reminder", nil, nil, nil, VerbSave, "queue reminder")
}

// VisitTypes returns the visit types the upstream accepts.
func (c *Client) VisitTypes(ctx context.Context) ([]string, error) {
	var resp struct {
		VisitTypes []string `json:"visit_types"`
	}
	if err := c.do(ctx, http.MethodGet, "/visit-types", nil, nil, &resp, VerbLoad, "load visit types"); err != nil {
		return nil, err
	}
	return resp.VisitTypes, nil
}

// FamilyGroups returns the known family grouping keys.
func (c *Client) FamilyGroups(ctx context.Context) ([]string, error) {
	var resp struct {
		FamilyGroups []string `json:"family_groups"`
	}
	if err := c.do(ctx, http.MethodGet, "/family-groups", nil, nil, &resp, VerbLoad, "load family groups"); err != nil {
		return nil, err
	}
	return resp.FamilyGroups, nil
}

// ProfessionGroups returns the known profession grouping keys.
func (c *Client) ProfessionGroups(ctx context.Context) ([]string, error) {
	var resp struct {
		ProfessionGroups []string `json:"profession_groups"`
	}
	if err := c.do(ctx, http.MethodGet, "/profession-groups", nil, nil, &resp, VerbLoad, "load profession groups"); err != nil {
		return nil, err
	}
	return resp.ProfessionGroups, nil
}
