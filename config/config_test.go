package config

import (
	"testing"
	"time"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "value=with=equals")

	c := New()
	if c["CONFIG_TEST_KEY"] != "value=with=equals" {
		t.Errorf("Expected raw value preserved, got %q", c["CONFIG_TEST_KEY"])
	}
}

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9000"}

	if got := GetString(c, "PORT", "8080"); got != "9000" {
		t.Errorf("Expected 9000, got %q", got)
	}
	if got := GetString(c, "MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := GetString(nil, "PORT", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for nil config, got %q", got)
	}
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"GOOD": "42", "BAD": "not-a-number"}

	if got := GetInt(c, "GOOD", 7); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := GetInt(c, "BAD", 7); got != 7 {
		t.Errorf("Expected default on unparsable value, got %d", got)
	}
	if got := GetInt(c, "MISSING", 7); got != 7 {
		t.Errorf("Expected default, got %d", got)
	}
}

func TestGetBool(t *testing.T) {
	c := map[string]string{"ON": "true", "OFF": "0", "BAD": "maybe"}

	if !GetBool(c, "ON", false) {
		t.Error("Expected true")
	}
	if GetBool(c, "OFF", true) {
		t.Error("Expected false")
	}
	if !GetBool(c, "BAD", true) {
		t.Error("Expected default on unparsable value")
	}
}

func TestGetHours(t *testing.T) {
	c := map[string]string{"SESSION_TTL_HOURS": "48"}

	if got := GetHours(c, "SESSION_TTL_HOURS", 24); got != 48*time.Hour {
		t.Errorf("Expected 48h, got %v", got)
	}
	if got := GetHours(c, "MISSING", 24); got != 24*time.Hour {
		t.Errorf("Expected default 24h, got %v", got)
	}
}
