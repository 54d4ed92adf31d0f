package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != "8080" {
		t.Fatalf("expected 127.0.0.1:8080, got %q:%q", cfg.Host, cfg.Port)
	}
	if cfg.Storage.Backend != StorageFile {
		t.Fatalf("expected file storage by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Realtime.MaxAttempts != 5 || cfg.Realtime.BaseDelay != 3*time.Second {
		t.Fatalf("unexpected realtime defaults: %+v", cfg.Realtime)
	}
	if cfg.Backend.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected api base url %q", cfg.Backend.APIBaseURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REALTIME_BASE_DELAY", "250ms")
	t.Setenv("DEFAULT_LANGUAGE", "ar")
	t.Setenv("HOST", "0.0.0.0")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != StorageRedis {
		t.Fatalf("expected redis, got %q", cfg.Storage.Backend)
	}
	if cfg.Realtime.BaseDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.Realtime.BaseDelay)
	}
	if cfg.Host != "0.0.0.0" {
		t.Fatalf("expected host override, got %q", cfg.Host)
	}
	if cfg.Locale.DefaultLanguage != "ar" {
		t.Fatalf("expected ar, got %q", cfg.Locale.DefaultLanguage)
	}
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown storage backend")
	}
}
