package config

import (
	"strings"
	"testing"
	"time"
)

type loadTestConfig struct {
	Port   int           `env:"TRIVIA_TEST_PORT" envDefault:"13117"`
	Window time.Duration `env:"TRIVIA_TEST_WINDOW" envDefault:"10s"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg loadTestConfig

	if err := Load(&cfg); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 13117 {
		t.Fatalf("expected default port 13117, got %d", cfg.Port)
	}
	if cfg.Window != 10*time.Second {
		t.Fatalf("expected default window 10s, got %v", cfg.Window)
	}
}

func TestLoadOverrides(t *testing.T) {
	var cfg loadTestConfig
	t.Setenv("TRIVIA_TEST_PORT", "14000")
	t.Setenv("TRIVIA_TEST_WINDOW", "2s")

	if err := Load(&cfg); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 14000 {
		t.Fatalf("expected port 14000, got %d", cfg.Port)
	}
	if cfg.Window != 2*time.Second {
		t.Fatalf("expected window 2s, got %v", cfg.Window)
	}
}

func TestLoadError(t *testing.T) {
	var cfg loadTestConfig
	t.Setenv("TRIVIA_TEST_PORT", "not-an-int")

	err := Load(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
