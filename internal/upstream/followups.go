package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/domain/whatsapp"
)

// FollowUps returns every follow-up the upstream tracks.
func (c *Client) FollowUps(ctx context.Context) ([]followup.FollowUp, error) {
	var list []followup.FollowUp
	if err := c.do(ctx, http.MethodGet, "/followups", nil, nil, &list, VerbLoad, "load follow-ups"); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateFollowUpStatus writes a follow-up's stored status. The only
// transition the dashboard issues is pending to completed.
func (c *Client) UpdateFollowUpStatus(ctx context.Context, id string, st followup.Status) error {
	q := url.Values{"status": {st.String()}}
	return c.do(ctx, http.MethodPatch, "/followups/"+id, q, nil, nil, VerbSave, "update follow-up")
}

// Messages returns drafted WhatsApp messages, all of them when status is
// empty.
func (c *Client) Messages(ctx context.Context, status string) ([]whatsapp.Message, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {status}}
	}
	var list []whatsapp.Message
	if err := c.do(ctx, http.MethodGet, "/whatsapp-messages", q, nil, &list, VerbLoad, "load messages"); err != nil {
		return nil, err
	}
	return list, nil
}

// ApproveMessage marks a drafted message approved, which is the only path
// to the sent state.
func (c *Client) ApproveMessage(ctx context.Context, id string) (*whatsapp.Message, error) {
	var approved whatsapp.Message
	if err := c.do(ctx, http.MethodPatch, "/whatsapp-messages/"+id+"/approve", nil, nil, &approved, VerbSave, "approve message"); err != nil {
		return nil, err
	}
	return &approved, nil
}

// GenerateDailySummaries asks the upstream to draft one summary message
// per doctor with visits on the given day.
func (c *Client) GenerateDailySummaries(ctx context.Context, date dates.Date) (int, error) {
	q := url.Values{"date": {date.String()}}
	var resp struct {
		Generated int `json:"generated"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate-daily-summaries", q, nil, &resp, VerbSave, "generate daily summaries"); err != nil {
		return 0, err
	}
	return resp.Generated, nil
}
