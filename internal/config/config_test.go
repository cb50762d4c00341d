package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if errWrite := os.WriteFile(path, []byte("database:\n  dsn: file:test.db\n"), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("Load: %v", errLoad)
	}
	if cfg.Database.DSN != "file:test.db" {
		t.Fatalf("dsn = %q, want %q", cfg.Database.DSN, "file:test.db")
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q, want default %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoadFullFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  addr: ":9090"
database:
  dsn: postgres://md@localhost/memberdesk
invoice:
  output-dir: /var/lib/memberdesk/invoices
ledger:
  audit-interval: 2h
logging:
  level: debug
  file: /var/log/memberdesk.log
  max-size-mb: 10
`
	if errWrite := os.WriteFile(path, []byte(body), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("Load: %v", errLoad)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Ledger.AuditInterval != 2*time.Hour {
		t.Fatalf("audit interval = %s, want 2h", cfg.Ledger.AuditInterval)
	}
	if cfg.Invoice.OutputDir != "/var/lib/memberdesk/invoices" {
		t.Fatalf("output dir = %q", cfg.Invoice.OutputDir)
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Fatalf("max size = %d, want 10", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml")); errLoad == nil {
		t.Fatalf("expected error for missing config file")
	}
}
