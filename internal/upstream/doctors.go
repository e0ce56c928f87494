package upstream

import (
	"context"
	"net/http"

	"github.com/clinicdash/clinicdash/internal/domain/doctor"
)

// DoctorNames returns the active roster as selection-list names.
func (c *Client) DoctorNames(ctx context.Context) ([]string, error) {
	var resp struct {
		Doctors []string `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &resp, VerbLoad, "load doctor names"); err != nil {
		return nil, err
	}
	return resp.Doctors, nil
}

// AllDoctors returns the full roster including deactivated doctors.
func (c *Client) AllDoctors(ctx context.Context) ([]doctor.Doctor, error) {
	var resp struct {
		Doctors []doctor.Doctor `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/doctors/all", nil, nil, &resp, VerbLoad, "load doctor roster"); err != nil {
		return nil, err
	}
	return resp.Doctors, nil
}

// CreateDoctor adds a doctor to the roster.
func (c *Client) CreateDoctor(ctx context.Context, form doctor.Form) (*doctor.Doctor, error) {
	var created doctor.Doctor
	if err := c.do(ctx, http.MethodPost, "/doctors", nil, form, &created, VerbSave, "create doctor"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDoctor renames a doctor or changes their phone number.
func (c *Client) UpdateDoctor(ctx context.Context, id string, form doctor.Form) (*doctor.Doctor, error) {
	var updated doctor.Doctor
	if err := c.do(ctx, http.MethodPut, "/doctors/"+id, nil, form, &updated, VerbSave, "update doctor"); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeactivateDoctor soft-deletes a doctor. Historical statistics keep the
// record; only selection lists drop it.
func (c *Client) DeactivateDoctor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/doctors/"+id, nil, nil, nil, VerbDelete, "deactivate doctor")
}

// ActivateDoctor restores a deactivated doctor to selection lists.
func (c *Client) ActivateDoctor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/doctors/"+id+"/activate", nil, nil, nil, VerbSave, "activate doctor")
}
