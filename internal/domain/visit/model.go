// Package visit models patient intake visits: the workflow status codec,
// the submission form, and the billable aggregation over fetched lists.
package visit

import (
	"fmt"
	"strings"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
)

// Visit is one patient encounter as served by the clinic API. The ID is
// assigned upstream and treated as opaque.
type Visit struct {
	ID              string      `json:"id,omitempty"`
	PatientName     string      `json:"patient_name"`
	PhoneNumber     string      `json:"phone_number,omitempty"`
	VisitDate       dates.Date  `json:"visit_date"`
	Doctor          string      `json:"doctor"`
	VisitType       string      `json:"visit_type"`
	Status          Status      `json:"status"`
	FamilyGroup     string      `json:"family_group,omitempty"`
	ProfessionGroup string      `json:"profession_group,omitempty"`
	IsRevisit       bool        `json:"is_revisit"`
	RevisitDate     *dates.Date `json:"revisit_date,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// Form is a visit submission assembled once and validated as a whole
// before any upstream call is made.
type Form struct {
	PatientName     string      `json:"patient_name"`
	PhoneNumber     string      `json:"phone_number,omitempty"`
	VisitDate       dates.Date  `json:"visit_date"`
	Doctor          string      `json:"doctor"`
	VisitType       string      `json:"visit_type"`
	Status          Status      `json:"status"`
	FamilyGroup     string      `json:"family_group,omitempty"`
	ProfessionGroup string      `json:"profession_group,omitempty"`
	IsRevisit       bool        `json:"is_revisit"`
	RevisitDate     *dates.Date `json:"revisit_date,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// Validate checks the form before submission. A form that fails here must
// produce zero network traffic.
func (f Form) Validate() error {
	if strings.TrimSpace(f.PatientName) == "" {
		return fmt.Errorf("patient name is required")
	}
	if strings.TrimSpace(f.Doctor) == "" {
		return fmt.Errorf("doctor is required")
	}
	if strings.TrimSpace(f.VisitType) == "" {
		return fmt.Errorf("visit type is required")
	}
	if !f.Status.Selected() {
		return fmt.Errorf("a status must be selected")
	}
	return nil
}
