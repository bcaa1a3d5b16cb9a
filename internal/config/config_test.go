package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.MaxBackups != 14 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if strings.HasPrefix(cfg.StorePath, "~") {
		t.Errorf("StorePath not expanded: %s", cfg.StorePath)
	}
	if cfg.Backups() != filepath.Join(filepath.Dir(cfg.StorePath), "backups") {
		t.Errorf("Backups() = %s", cfg.Backups())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "store_path: "+filepath.Join(dir, "data.json")+"\nbackend: JSON\nmax_backups: 3\ndebug: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorePath != filepath.Join(dir, "data.json") {
		t.Errorf("StorePath = %s", cfg.StorePath)
	}
	if cfg.Backend != "json" || cfg.MaxBackups != 3 || !cfg.Debug {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", cfg.Dir(), dir)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "store_path: [unterminated"},
		{name: "unknown backend", body: "backend: postgres"},
		{name: "negative backups", body: "max_backups: -2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	dir := t.TempDir()
	base, err := Load(writeConfig(t, "backend: json\n"))
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := base.Apply(Overrides{StorePath: filepath.Join(dir, "pa.db"), Backend: "sqlite"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.StorePath != filepath.Join(dir, "pa.db") {
		t.Errorf("Apply() = %+v", cfg)
	}
	if cfg.Backups() != filepath.Join(dir, "backups") {
		t.Errorf("Backups() = %s, want it to follow the store", cfg.Backups())
	}

	same, err := base.Apply(Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if same.Backend != "json" {
		t.Errorf("empty overrides changed backend to %s", same.Backend)
	}
}
