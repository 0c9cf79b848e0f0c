package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected IsProd to be true")
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if cfg.KV.Driver != KVDriverRedis {
		t.Fatalf("expected default kv driver redis, got %q", cfg.KV.Driver)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Fatalf("expected default backend timeout 10s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Wizard.MaxUploadBytes() != 10<<20 {
		t.Fatalf("expected a 10MB wizard upload limit, got %d", cfg.Wizard.MaxUploadBytes())
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_SQLiteRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvKVDriver, "SQLite")

	if _, err := Load(); err == nil {
		t.Fatal("expected sqlite driver without dsn to fail")
	}

	t.Setenv(EnvDBDSN, "file:drafts.db")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.KV.Driver != KVDriverSQLite || cfg.DB.Driver != KVDriverSQLite {
		t.Fatalf("expected normalized sqlite driver, got kv=%q db=%q", cfg.KV.Driver, cfg.DB.Driver)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvKVDriver, "memcached")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown kv driver to fail")
	}
}

func TestLoad_MemoryDriverNeedsNoBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvKVDriver, "memory")
	t.Setenv(EnvRedisURL, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.KV.Driver != KVDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.KV.Driver)
	}
	if cfg.KV.TTL != 720*time.Hour {
		t.Fatalf("expected default kv ttl, got %v", cfg.KV.TTL)
	}
}

func TestWizardMaxUploadBytes(t *testing.T) {
	if got := (WizardConfig{}).MaxUploadBytes(); got != 10<<20 {
		t.Fatalf("expected 10MB default, got %d", got)
	}
	if got := (WizardConfig{MaxUploadMB: 2}).MaxUploadBytes(); got != 2<<20 {
		t.Fatalf("expected 2MB, got %d", got)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvBackendBaseURL, "http://localhost:8000/api/v1")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvKVDriver, "")
	t.Setenv(EnvDBDSN, "")
}
