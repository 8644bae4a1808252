package phone

import "testing"

// TestNormalizeFormatted проверяет разбор отформатированного бразильского номера.
func TestNormalizeFormatted(t *testing.T) {
	got, err := Normalize("(11) 99541-0041", "BR")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got != "5511995410041" {
		t.Fatalf("expected 5511995410041, got %s", got)
	}
}

// TestNormalizeWithCountryCode проверяет номер, уже содержащий код страны.
func TestNormalizeWithCountryCode(t *testing.T) {
	got, err := Normalize("5511995410041", "BR")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got != "5511995410041" {
		t.Fatalf("expected 5511995410041, got %s", got)
	}
}

// TestNormalizeInvalid проверяет отказ на мусорном вводе.
func TestNormalizeInvalid(t *testing.T) {
	if _, err := Normalize("123", "BR"); err == nil {
		t.Fatal("expected error for short number")
	}

	if _, err := Normalize("", "BR"); err == nil {
		t.Fatal("expected error for empty input")
	}
}
