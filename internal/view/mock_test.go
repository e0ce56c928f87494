package view

import (
	"context"
	"sync"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/doctor"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/domain/whatsapp"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
	"github.com/clinicdash/clinicdash/internal/upstream"
)

// stubClinic counts upstream calls and delegates to whichever function
// fields a test sets. Unset methods return empty results.
type stubClinic struct {
	mu    sync.Mutex
	calls int

	dailyPatientsFn    func(date dates.Date) ([]visit.Visit, error)
	patientsByStatusFn func(st visit.Status, r dates.Range) (*upstream.StatusReport, error)
	overduePatientsFn  func() (*upstream.OverdueReport, error)
	createPatientFn    func(form visit.Form) (*visit.Visit, error)
	deletePatientFn    func(id string) error
	followUpsFn        func() ([]followup.FollowUp, error)
	updateFollowUpFn   func(id string, st followup.Status) error
	messagesFn         func(status string) ([]whatsapp.Message, error)
	approveMessageFn   func(id string) (*whatsapp.Message, error)
	monthlyStatsFn     func(year, month int) (*upstream.MonthlyStats, error)
	weeklyTrendFn      func(year, month int) (*upstream.TrendWarning, error)
	allDoctorsFn       func() ([]doctor.Doctor, error)
}

func (s *stubClinic) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubClinic) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubClinic) DailyPatients(_ context.Context, date dates.Date) ([]visit.Visit, error) {
	s.record()
	if s.dailyPatientsFn != nil {
		return s.dailyPatientsFn(date)
	}
	return nil, nil
}

func (s *stubClinic) PatientsByStatus(_ context.Context, st visit.Status, r dates.Range) (*upstream.StatusReport, error) {
	s.record()
	if s.patientsByStatusFn != nil {
		return s.patientsByStatusFn(st, r)
	}
	return &upstream.StatusReport{}, nil
}

func (s *stubClinic) OverduePatients(_ context.Context) (*upstream.OverdueReport, error) {
	s.record()
	if s.overduePatientsFn != nil {
		return s.overduePatientsFn()
	}
	return &upstream.OverdueReport{}, nil
}

func (s *stubClinic) CreatePatient(_ context.Context, form visit.Form) (*visit.Visit, error) {
	s.record()
	if s.createPatientFn != nil {
		return s.createPatientFn(form)
	}
	return &visit.Visit{ID: "p1", Status: form.Status}, nil
}

func (s *stubClinic) UpdatePatient(_ context.Context, id string, form visit.Form) (*visit.Visit, error) {
	s.record()
	return &visit.Visit{ID: id, Status: form.Status}, nil
}

func (s *stubClinic) DeletePatient(_ context.Context, id string) error {
	s.record()
	if s.deletePatientFn != nil {
		return s.deletePatientFn(id)
	}
	return nil
}

func (s *stubClinic) MarkRevisit(_ context.Context, id string, date dates.Date) error {
	s.record()
	return nil
}

func (s *stubClinic) SendReminder(_ context.Context, id string) error {
	s.record()
	return nil
}

func (s *stubClinic) VisitTypes(_ context.Context) ([]string, error) {
	s.record()
	return []string{"implant", "kontrol", "muayene", "randevu"}, nil
}

func (s *stubClinic) FamilyGroups(_ context.Context) ([]string, error) {
	s.record()
	return []string{"A", "B"}, nil
}

func (s *stubClinic) ProfessionGroups(_ context.Context) ([]string, error) {
	s.record()
	return nil, nil
}

func (s *stubClinic) DoctorNames(_ context.Context) ([]string, error) {
	s.record()
	return []string{"DR SEFA ARAS"}, nil
}

func (s *stubClinic) AllDoctors(_ context.Context) ([]doctor.Doctor, error) {
	s.record()
	if s.allDoctorsFn != nil {
		return s.allDoctorsFn()
	}
	return nil, nil
}

func (s *stubClinic) CreateDoctor(_ context.Context, form doctor.Form) (*doctor.Doctor, error) {
	s.record()
	return &doctor.Doctor{ID: "d1", Name: form.Name, Active: true}, nil
}

func (s *stubClinic) UpdateDoctor(_ context.Context, id string, form doctor.Form) (*doctor.Doctor, error) {
	s.record()
	return &doctor.Doctor{ID: id, Name: form.Name, Active: true}, nil
}

func (s *stubClinic) DeactivateDoctor(_ context.Context, id string) error {
	s.record()
	return nil
}

func (s *stubClinic) ActivateDoctor(_ context.Context, id string) error {
	s.record()
	return nil
}

func (s *stubClinic) FollowUps(_ context.Context) ([]followup.FollowUp, error) {
	s.record()
	if s.followUpsFn != nil {
		return s.followUpsFn()
	}
	return nil, nil
}

func (s *stubClinic) UpdateFollowUpStatus(_ context.Context, id string, st followup.Status) error {
	s.record()
	if s.updateFollowUpFn != nil {
		return s.updateFollowUpFn(id, st)
	}
	return nil
}

func (s *stubClinic) Messages(_ context.Context, status string) ([]whatsapp.Message, error) {
	s.record()
	if s.messagesFn != nil {
		return s.messagesFn(status)
	}
	return nil, nil
}

func (s *stubClinic) ApproveMessage(_ context.Context, id string) (*whatsapp.Message, error) {
	s.record()
	if s.approveMessageFn != nil {
		return s.approveMessageFn(id)
	}
	return &whatsapp.Message{ID: id, Status: whatsapp.Sent, Approved: true}, nil
}

func (s *stubClinic) GenerateDailySummaries(_ context.Context, date dates.Date) (int, error) {
	s.record()
	return 2, nil
}

func (s *stubClinic) MonthlyStatistics(_ context.Context, year, month int) (*upstream.MonthlyStats, error) {
	s.record()
	if s.monthlyStatsFn != nil {
		return s.monthlyStatsFn(year, month)
	}
	return &upstream.MonthlyStats{Year: year, Month: month}, nil
}

func (s *stubClinic) WeeklyTrend(_ context.Context, year, month int) (*upstream.TrendWarning, error) {
	s.record()
	if s.weeklyTrendFn != nil {
		return s.weeklyTrendFn(year, month)
	}
	return &upstream.TrendWarning{}, nil
}

func (s *stubClinic) ExportDailyReport(_ context.Context, date dates.Date) ([]byte, string, error) {
	s.record()
	return []byte("%PDF-1.4"), "application/pdf", nil
}

func (s *stubClinic) ExportMonthlyStats(_ context.Context, year, month int) ([]byte, string, error) {
	s.record()
	return []byte("%PDF-1.4"), "application/pdf", nil
}

var _ Clinic = (*stubClinic)(nil)

// recordingPublisher captures refresh events synchronously.
type recordingPublisher struct {
	mu     sync.Mutex
	events []refresh.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e refresh.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) topics() []refresh.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]refresh.Topic, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}
