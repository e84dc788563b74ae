package main

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadAuthConfig(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("SATVIS_AUTH_ENABLED", "")
		cfg, err := loadAuthConfig(testLogger())
		if err != nil || cfg.Enabled {
			t.Errorf("cfg = %+v, err = %v", cfg, err)
		}
	})
	t.Run("enabled without token", func(t *testing.T) {
		t.Setenv("SATVIS_AUTH_ENABLED", "true")
		t.Setenv("SATVIS_AUTH_TOKEN", "")
		if _, err := loadAuthConfig(testLogger()); err == nil {
			t.Error("expected error when token is missing")
		}
	})
	t.Run("not a boolean", func(t *testing.T) {
		t.Setenv("SATVIS_AUTH_ENABLED", "sure")
		if _, err := loadAuthConfig(testLogger()); err == nil {
			t.Error("expected error for non-boolean value")
		}
	})
	t.Run("enabled with token", func(t *testing.T) {
		t.Setenv("SATVIS_AUTH_ENABLED", "1")
		t.Setenv("SATVIS_AUTH_TOKEN", "abc")
		cfg, err := loadAuthConfig(testLogger())
		if err != nil || !cfg.Enabled || cfg.Token != "abc" {
			t.Errorf("cfg = %+v, err = %v", cfg, err)
		}
	})
}

func TestLoadAPIConfig(t *testing.T) {
	t.Setenv("SATVIS_TRUST_PROXY", "true")
	t.Setenv("SATVIS_DEFAULT_LEAP_SECONDS", "500")
	t.Setenv("SATVIS_MAX_CONCURRENT_PER_IP", "4")

	cfg := loadAPIConfig(testLogger())
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
	if cfg.DefaultLeapSeconds != 37 {
		t.Errorf("out-of-range leap seconds should keep the default, got %d", cfg.DefaultLeapSeconds)
	}
	if cfg.MaxConcurrentPerIP != 4 {
		t.Errorf("MaxConcurrentPerIP = %d, want 4", cfg.MaxConcurrentPerIP)
	}
}

func TestLoadTracingConfig(t *testing.T) {
	t.Setenv("SATVIS_TRACING_ENABLED", "true")
	t.Setenv("SATVIS_TRACING_EXPORTER", "otlp")
	t.Setenv("SATVIS_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("SATVIS_TRACING_SAMPLE_RATIO", "2")

	cfg := loadTracingConfig(testLogger())
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.Endpoint != "collector:4317" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SampleRatio != 1.0 {
		t.Errorf("invalid ratio should keep the default, got %v", cfg.SampleRatio)
	}
}
