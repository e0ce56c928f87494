// Package whatsapp models the reminder messages drafted by the clinic API
// and approved through the dashboard.
package whatsapp

import (
	"fmt"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
)

// MessageType distinguishes the two kinds of drafted messages.
type MessageType int

const (
	DailySummary MessageType = iota
	FollowUpReminder
)

const (
	wireDailySummary     = "daily_summary"
	wireFollowUpReminder = "followup_reminder"
)

func ParseMessageType(s string) (MessageType, error) {
	switch s {
	case wireDailySummary:
		return DailySummary, nil
	case wireFollowUpReminder:
		return FollowUpReminder, nil
	}
	return DailySummary, fmt.Errorf("unknown message type %q", s)
}

func (m MessageType) String() string {
	if m == FollowUpReminder {
		return wireFollowUpReminder
	}
	return wireDailySummary
}

func (m MessageType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *MessageType) UnmarshalJSON(b []byte) error {
	return unmarshalWire(b, "message type", func(s string) error {
		parsed, err := ParseMessageType(s)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	})
}

// Status is a message's delivery state. Messages are created pending
// approval; only the explicit approve call moves one to Sent.
type Status int

const (
	PendingApproval Status = iota
	Sent
	Failed
)

const (
	wirePendingApproval = "onay_bekliyor"
	wireSent            = "gönderildi"
	wireFailed          = "başarısız"
)

var statusWire = map[Status]string{
	PendingApproval: wirePendingApproval,
	Sent:            wireSent,
	Failed:          wireFailed,
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case wirePendingApproval:
		return PendingApproval, nil
	case wireSent:
		return Sent, nil
	case wireFailed:
		return Failed, nil
	}
	return PendingApproval, fmt.Errorf("unknown message status %q", s)
}

func (s Status) String() string {
	return statusWire[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	return unmarshalWire(b, "message status", func(raw string) error {
		parsed, err := ParseStatus(raw)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	})
}

func unmarshalWire(b []byte, what string, set func(string) error) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%s must be a JSON string, got %s", what, b)
	}
	return set(string(b[1 : len(b)-1]))
}

// Message is a drafted WhatsApp reminder awaiting approval or already
// dispatched.
type Message struct {
	ID             string      `json:"id"`
	RecipientName  string      `json:"recipient_name"`
	RecipientPhone string      `json:"recipient_phone"`
	Type           MessageType `json:"message_type"`
	Text           string      `json:"message_text"`
	Status         Status      `json:"status"`
	Approved       bool        `json:"approved"`
	ScheduledDate  *dates.Date `json:"scheduled_date,omitempty"`
}
