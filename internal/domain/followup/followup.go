// Package followup models scheduled patient follow-ups and the read-time
// classification of their effective status.
package followup

import (
	"fmt"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
)

// Status is a follow-up's stored status. Overdue is never stored; it is
// derived at read time by Classify.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
)

const (
	wirePending   = "beklemede"
	wireCompleted = "tamamlandı"
	// The clinic API writes this for follow-ups whose date has passed.
	// Effective status is derived locally, so it decodes as pending.
	wireOverdueStored = "gecikmiş"
)

func ParseStatus(s string) (Status, error) {
	switch s {
	case wirePending, wireOverdueStored:
		return StatusPending, nil
	case wireCompleted:
		return StatusCompleted, nil
	}
	return StatusPending, fmt.Errorf("unknown followup status %q", s)
}

func (s Status) String() string {
	if s == StatusCompleted {
		return wireCompleted
	}
	return wirePending
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("followup status must be a JSON string, got %s", b)
	}
	parsed, err := ParseStatus(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FollowUp is a scheduled contact task. Patient fields are denormalized
// by the clinic API for display.
type FollowUp struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	PatientName  string     `json:"patient_name"`
	Doctor       string     `json:"doctor"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	FollowupDate dates.Date `json:"followup_date"`
	Reason       string     `json:"reason,omitempty"`
	Status       Status     `json:"status"`
}

// Effective is the derived display status of a follow-up.
type Effective int

const (
	Pending Effective = iota
	Overdue
	Completed
)

var effectiveNames = map[Effective]string{
	Pending:   "pending",
	Overdue:   "overdue",
	Completed: "completed",
}

func (e Effective) String() string {
	return effectiveNames[e]
}

// Classify projects a follow-up onto its effective status for the given
// day. Completed is terminal regardless of date; nothing is written back.
func Classify(f FollowUp, today dates.Date) Effective {
	if f.Status == StatusCompleted {
		return Completed
	}
	if f.FollowupDate.Before(today) {
		return Overdue
	}
	return Pending
}

// Tally holds the effective-status counts over a follow-up list.
type Tally struct {
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// Count recomputes a tally from scratch. Derived counts are never
// maintained incrementally.
func Count(list []FollowUp, today dates.Date) Tally {
	var t Tally
	for _, f := range list {
		switch Classify(f, today) {
		case Pending:
			t.Pending++
		case Overdue:
			t.Overdue++
		case Completed:
			t.Completed++
		}
	}
	return t
}
