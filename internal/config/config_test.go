package config

import (
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка телефонов из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_PHONES", " 5511995410041, ,5511912345678 ")

	got := parseCSVEnv("ADMIN_PHONES")
	want := []string{"5511995410041", "5511912345678"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestValidateSessionTTL проверяет обязательность настроек сессии.
func TestValidateSessionTTL(t *testing.T) {
	cfg := Config{}
	cfg.Server.Port = 8080
	cfg.Database.Host = "localhost"
	cfg.Database.User = "bills"
	cfg.Database.Name = "household_bills"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 5
	cfg.Auth.SessionCookie = "session"
	cfg.Auth.RateLimitPerMinute = 60
	cfg.Auth.RateLimitBurst = 10
	cfg.Phone.DefaultRegion = "BR"

	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for zero SESSION_TTL")
	}

	cfg.Auth.SessionTTL = 1
	if err := cfg.validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
