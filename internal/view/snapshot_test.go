package view

import "testing"

func TestSnapshot_AppliesCurrentGeneration(t *testing.T) {
	var s Snapshot[int]

	gen := s.Generation()
	if !s.Apply(gen, 42) {
		t.Fatal("expected apply to succeed")
	}

	v, ok := s.Current()
	if !ok || v != 42 {
		t.Errorf("unexpected snapshot %v valid=%v", v, ok)
	}
}

func TestSnapshot_DiscardsStaleResult(t *testing.T) {
	var s Snapshot[int]

	gen := s.Generation()
	s.Invalidate()

	if s.Apply(gen, 99) {
		t.Error("expected stale apply to be discarded")
	}
	if _, ok := s.Current(); ok {
		t.Error("expected no valid value after invalidation")
	}
}

func TestSnapshot_NewerReadWinsAfterInvalidation(t *testing.T) {
	var s Snapshot[string]

	oldGen := s.Generation()
	s.Invalidate()
	newGen := s.Generation()

	if !s.Apply(newGen, "fresh") {
		t.Fatal("expected current-generation apply to succeed")
	}
	// A slow response from before the mutation arrives afterwards and
	// must not overwrite the newer result.
	if s.Apply(oldGen, "stale") {
		t.Error("expected late stale apply to be discarded")
	}

	v, ok := s.Current()
	if !ok || v != "fresh" {
		t.Errorf("unexpected snapshot %q valid=%v", v, ok)
	}
}
