package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range m {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestMigrationsSortedAndParsed(t *testing.T) {
	r := NewRunner(openTestDB(t), files(map[string]string{
		"003_another.sql": "CREATE TABLE c (id INTEGER);",
		"001_init.sql":    "CREATE TABLE a (id INTEGER);",
		"002_update.sql":  "CREATE TABLE b (id INTEGER);",
		"README.md":       "ignored",
	}))

	ms, err := r.Migrations()
	if err != nil {
		t.Fatalf("Migrations() error = %v", err)
	}
	want := []string{"init", "update", "another"}
	if len(ms) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(ms), len(want))
	}
	for i, m := range ms {
		if m.Version != i+1 || m.Name != want[i] {
			t.Errorf("migration %d = %d/%s, want %d/%s", i, m.Version, m.Name, i+1, want[i])
		}
	}
}

func TestMigrationsRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "no underscore", files: map[string]string{"001.sql": ""}},
		{name: "non numeric", files: map[string]string{"abc_init.sql": ""}},
		{name: "zero version", files: map[string]string{"000_init.sql": ""}},
		{name: "duplicate", files: map[string]string{"001_a.sql": "", "01_b.sql": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(openTestDB(t), files(tt.files)).Migrations(); err == nil {
				t.Error("Migrations() expected error")
			}
		})
	}
}

func TestApplyFromScratchAndIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := NewRunner(db, files(map[string]string{
		"001_init.sql": "CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT);",
		"002_more.sql": "ALTER TABLE kv ADD COLUMN updated_at TEXT;",
	}))

	n, err := r.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Apply() applied %d, want 2", n)
	}
	if v, _ := r.CurrentVersion(ctx); v != 2 {
		t.Errorf("CurrentVersion() = %d, want 2", v)
	}
	if _, err := db.Exec("INSERT INTO kv (key, value, updated_at) VALUES ('k', 'v', 'now')"); err != nil {
		t.Errorf("schema not applied: %v", err)
	}

	n, err = r.Apply(ctx)
	if err != nil || n != 0 {
		t.Errorf("second Apply() = %d, %v; want 0, nil", n, err)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(openTestDB(t), files(map[string]string{
		"001_init.sql":   "CREATE TABLE a (id INTEGER);",
		"002_broken.sql": "CREATE TABLE oops (",
	}))

	n, err := r.Apply(ctx)
	if err == nil {
		t.Fatal("Apply() expected error")
	}
	if n != 1 {
		t.Errorf("Apply() applied %d, want 1", n)
	}
	if v, _ := r.CurrentVersion(ctx); v != 1 {
		t.Errorf("CurrentVersion() = %d, want 1", v)
	}
}

func TestNewerSchemaRejected(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := NewRunner(db, files(map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"}))
	if _, err := r.Apply(ctx); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("update version: %v", err)
	}

	err := r.Validate(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Validate() error = %v, want newer schema error", err)
	}
	if _, err := r.Apply(ctx); err == nil {
		t.Error("Apply() expected error on newer schema")
	}
}
