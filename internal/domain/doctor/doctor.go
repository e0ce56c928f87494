// Package doctor models the clinic's doctor roster. Doctors are soft
// deleted: deactivation removes them from selection lists while keeping
// historical statistics intact.
package doctor

import (
	"fmt"
	"strings"
)

type Doctor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Active      bool   `json:"active"`
}

// Form is a roster create/update submission.
type Form struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("doctor name is required")
	}
	return nil
}

// ActiveNames returns the names offered in selection lists, preserving
// roster order.
func ActiveNames(roster []Doctor) []string {
	names := make([]string, 0, len(roster))
	for _, d := range roster {
		if d.Active {
			names = append(names, d.Name)
		}
	}
	return names
}
