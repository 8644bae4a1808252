package handlers

import "testing"

func TestNormalizeName(t *testing.T) {
	padded := "  Alice  "
	got := normalizeName(&padded)
	if got == nil || *got != "Alice" {
		t.Fatalf("expected trimmed name, got %v", got)
	}
}

func TestNormalizeNameBlank(t *testing.T) {
	blank := "   "
	if got := normalizeName(&blank); got != nil {
		t.Fatalf("expected nil for blank name, got %q", *got)
	}
}

func TestNormalizeNameNil(t *testing.T) {
	if got := normalizeName(nil); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
}
