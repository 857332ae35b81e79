package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data_dir: /tmp/swapzo-test
storage:
  driver: sqlite
gateway:
  http:
    listen_addr: ":9090"
    enable_docs: true
matching:
  threshold: 0.6
  min_confidence: 0.5
  max_results: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gateway.HTTP.Addr() != ":9090" {
		t.Errorf("listen addr = %q, want :9090", cfg.Gateway.HTTP.Addr())
	}
	if !cfg.Gateway.HTTP.EnableDocs {
		t.Error("enable_docs not parsed")
	}
	if cfg.Matching == nil || cfg.Matching.Threshold != 0.6 {
		t.Errorf("matching section not parsed: %+v", cfg.Matching)
	}
	if cfg.StorageDriverName() != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.StorageDriverName())
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "data_dir": "/tmp/swapzo-test",
  "gateway": {"http": {"listen_addr": ":8081"}}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gateway.HTTP.Addr() != ":8081" {
		t.Errorf("listen addr = %q, want :8081", cfg.Gateway.HTTP.Addr())
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
storage:
  driver: mysql
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
storage:
  driver: postgres
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for postgres without dsn")
	}
}

func TestLoad_RejectsOutOfRangeThreshold(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
matching:
  threshold: 1.5
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for threshold > 1")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Gateway.HTTP.Addr() != ":8080" {
		t.Errorf("default addr = %q", cfg.Gateway.HTTP.Addr())
	}
	if cfg.StorageDriverName() != "sqlite" {
		t.Errorf("default driver = %q", cfg.StorageDriverName())
	}
	if got := cfg.Scheduler.Schedule(); got != "@every 1h" {
		t.Errorf("default schedule = %q", got)
	}
	if got := cfg.Scheduler.PollInterval().Seconds(); got != 30 {
		t.Errorf("default poll interval = %vs", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWAPZO_LISTEN_ADDR", ":7070")
	t.Setenv("SWAPZO_DB_DSN", "postgres://localhost/swapzo")

	path := writeConfig(t, "config.yaml", `
gateway:
  http:
    listen_addr: ":8080"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gateway.HTTP.Addr() != ":7070" {
		t.Errorf("env override lost: addr = %q", cfg.Gateway.HTTP.Addr())
	}
	if cfg.Storage == nil || cfg.Storage.Postgres == nil || cfg.Storage.Postgres.DSN != "postgres://localhost/swapzo" {
		t.Errorf("dsn env override not applied: %+v", cfg.Storage)
	}
}
