package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "ALLOWED_ORIGIN", "METRICS_ENABLED",
		"SHEETS_WEBAPP_URL", "VAPI_TOKEN", "VAPI_ASSISTANT_ID",
		"VAPI_PHONE_NUMBER_ID", "VAPI_CALL_URL", "HTTP_CLIENT_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.AllowedOrigin != "*" {
		t.Fatalf("expected wildcard origin, got %s", cfg.AllowedOrigin)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.VapiCallURL != DefaultVapiCallURL {
		t.Fatalf("expected default vapi url, got %s", cfg.VapiCallURL)
	}
	if cfg.HTTPClientTimeout != 0 {
		t.Fatalf("expected no outbound timeout, got %s", cfg.HTTPClientTimeout)
	}
	if cfg.HasSheets() {
		t.Fatalf("expected sheets unconfigured")
	}
	if cfg.HasVapi() {
		t.Fatalf("expected vapi unconfigured")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGIN", "https://inis.example")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SHEETS_WEBAPP_URL", " https://script.google.com/macros/s/abc/exec ")
	t.Setenv("VAPI_TOKEN", "tok")
	t.Setenv("VAPI_ASSISTANT_ID", "asst")
	t.Setenv("VAPI_PHONE_NUMBER_ID", "pn")
	t.Setenv("VAPI_CALL_URL", "http://localhost:9999/call")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "5s")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.AllowedOrigin != "https://inis.example" {
		t.Fatalf("expected origin override, got %s", cfg.AllowedOrigin)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics disabled")
	}
	if cfg.SheetsWebAppURL != "https://script.google.com/macros/s/abc/exec" {
		t.Fatalf("expected trimmed sheets url, got %q", cfg.SheetsWebAppURL)
	}
	if !cfg.HasSheets() || !cfg.HasVapi() {
		t.Fatalf("expected sheets and vapi configured")
	}
	if cfg.VapiCallURL != "http://localhost:9999/call" {
		t.Fatalf("expected vapi url override, got %s", cfg.VapiCallURL)
	}
	if cfg.HTTPClientTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.HTTPClientTimeout)
	}
}

func TestHasVapiRequiresAllThree(t *testing.T) {
	cfg := &Config{VapiToken: "tok", VapiAssistantID: "asst"}
	if cfg.HasVapi() {
		t.Fatalf("expected missing phone number id to disable vapi")
	}
	var nilCfg *Config
	if nilCfg.HasVapi() || nilCfg.HasSheets() {
		t.Fatalf("expected nil config to report unconfigured")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_CLIENT_TIMEOUT", "soon")
	if got := Load().HTTPClientTimeout; got != 0 {
		t.Fatalf("expected fallback to zero, got %s", got)
	}
}
