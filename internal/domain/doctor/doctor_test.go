package doctor

import "testing"

func TestActiveNames_SkipsDeactivated(t *testing.T) {
	roster := []Doctor{
		{ID: "1", Name: "DR SEFA ARAS", Active: true},
		{ID: "2", Name: "DR MURATCAN KARBA", Active: false},
		{ID: "3", Name: "DR NAZİF YELKEN", Active: true},
	}

	names := ActiveNames(roster)
	if len(names) != 2 {
		t.Fatalf("expected 2 active names, got %v", names)
	}
	if names[0] != "DR SEFA ARAS" || names[1] != "DR NAZİF YELKEN" {
		t.Errorf("unexpected order or content: %v", names)
	}
}

func TestForm_Validate(t *testing.T) {
	if err := (Form{Name: "DR HÜSEYİN EKİNCİ"}).Validate(); err != nil {
		t.Errorf("expected valid form, got %v", err)
	}
	if err := (Form{Name: "   "}).Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}
