package visit

import "fmt"

// Status is the closed set of workflow decisions for a visit. The zero
// value is Unselected, which is never a valid persisted status; it exists
// so an untouched form field is distinguishable from a chosen one.
type Status int

const (
	StatusUnselected Status = iota
	StatusAccepted
	StatusNotAccepted
	StatusThinking
)

// Wire literals shared with the clinic API.
const (
	wireAccepted    = "kabul etti"
	wireNotAccepted = "kabul etmedi"
	wireThinking    = "düşünüyor"
)

var statusWire = map[Status]string{
	StatusAccepted:    wireAccepted,
	StatusNotAccepted: wireNotAccepted,
	StatusThinking:    wireThinking,
}

// ParseStatus decodes a wire string into a Status. Anything outside the
// three canonical literals is an error, never a silent default.
func ParseStatus(s string) (Status, error) {
	switch s {
	case wireAccepted:
		return StatusAccepted, nil
	case wireNotAccepted:
		return StatusNotAccepted, nil
	case wireThinking:
		return StatusThinking, nil
	}
	return StatusUnselected, fmt.Errorf("unknown visit status %q", s)
}

// String returns the wire literal for a selected status.
func (s Status) String() string {
	if w, ok := statusWire[s]; ok {
		return w
	}
	return ""
}

// Selected reports whether a concrete decision has been chosen.
func (s Status) Selected() bool {
	_, ok := statusWire[s]
	return ok
}

func (s Status) MarshalJSON() ([]byte, error) {
	w, ok := statusWire[s]
	if !ok {
		return nil, fmt.Errorf("cannot encode visit status %d", int(s))
	}
	return []byte(`"` + w + `"`), nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("visit status must be a JSON string, got %s", b)
	}
	parsed, err := ParseStatus(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
