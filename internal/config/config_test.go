package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CachePath != "data/cache.json" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.SourceTimeout != 90*time.Second {
		t.Errorf("SourceTimeout = %s", cfg.SourceTimeout)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandcal.yaml")
	data := []byte("cache_path: /var/lib/sandcal/cache.json\nsource_timeout: 45s\nconcurrency: 5\ncors_origins:\n  - https://txbeach.example\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CachePath != "/var/lib/sandcal/cache.json" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if cfg.SourceTimeout != 45*time.Second {
		t.Errorf("SourceTimeout = %s", cfg.SourceTimeout)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://txbeach.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	// Untouched keys keep their defaults.
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandcal.yaml")
	if err := os.WriteFile(path, []byte("refresh_token: from-file\nconcurrency: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SANDCAL_REFRESH_TOKEN", "from-env")
	t.Setenv("SANDCAL_REFRESH_CEILING", "2m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RefreshToken != "from-env" {
		t.Errorf("RefreshToken = %q, want env value", cfg.RefreshToken)
	}
	if cfg.Ceiling != 2*time.Minute {
		t.Errorf("Ceiling = %s", cfg.Ceiling)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("Concurrency = %d, want file value preserved", cfg.Concurrency)
	}
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("SANDCAL_SOURCE_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("Load() expected error for malformed duration")
	}
}
