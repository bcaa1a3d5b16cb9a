package instance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	origFind, origList, origSelf := findProcessFunc, processesFunc, selfPidFunc
	t.Cleanup(func() {
		findProcessFunc, processesFunc, selfPidFunc = origFind, origList, origSelf
	})

	selfPidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
	processesFunc = func() ([]ps.Process, error) {
		var out []ps.Process
		for pid, exe := range running {
			out = append(out, &mockProcess{pid: pid, executable: exe})
		}
		return out, nil
	}
}

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestAcquireFresh(t *testing.T) {
	stubProcesses(t, 100, map[int]string{100: "pa"})
	g := NewGuard(filepath.Join(t.TempDir(), "cfg"))

	holder, err := g.Acquire(now)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if holder != nil {
		t.Errorf("Acquire() holder = %v, want nil", holder)
	}
	content, err := os.ReadFile(g.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "100|2026-03-02T09:00:00.000Z" {
		t.Errorf("lockfile = %q", content)
	}
}

func TestAcquireReportsLiveHolder(t *testing.T) {
	stubProcesses(t, 100, map[int]string{100: "pa", 42: "pa"})
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pa.lock"), []byte("42|2026-03-02T08:00:00.000Z"), 0600); err != nil {
		t.Fatal(err)
	}

	holder, err := NewGuard(dir).Acquire(now)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if holder == nil || holder.Pid != 42 {
		t.Fatalf("Acquire() holder = %v, want pid 42", holder)
	}
	if !holder.Since.Equal(now.Add(-time.Hour)) {
		t.Errorf("holder.Since = %v", holder.Since)
	}
}

func TestHolderIgnoresStaleLocks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{name: "dead process", content: "42|2026-03-02T08:00:00.000Z", running: map[int]string{}},
		{name: "pid reused by another program", content: "42|2026-03-02T08:00:00.000Z", running: map[int]string{42: "bash"}},
		{name: "our own pid", content: "100|2026-03-02T08:00:00.000Z", running: map[int]string{100: "pa"}},
		{name: "malformed", content: "garbage", running: map[int]string{42: "pa"}},
		{name: "bad pid", content: "x|2026-03-02T08:00:00.000Z", running: map[int]string{42: "pa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcesses(t, 100, tt.running)
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "pa.lock"), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			holder, err := NewGuard(dir).Holder()
			if err != nil || holder != nil {
				t.Errorf("Holder() = %v, %v; want nil, nil", holder, err)
			}
		})
	}
}

func TestRelease(t *testing.T) {
	stubProcesses(t, 100, map[int]string{100: "pa"})
	g := NewGuard(t.TempDir())
	if _, err := g.Acquire(now); err != nil {
		t.Fatal(err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(g.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Release() left the lockfile behind")
	}

	// Someone else's lock stays.
	if err := os.WriteFile(g.Path(), []byte("42|2026-03-02T08:00:00.000Z"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := g.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(g.Path()); err != nil {
		t.Error("Release() removed another process's lockfile")
	}
}

func TestOthers(t *testing.T) {
	stubProcesses(t, 100, map[int]string{100: "pa", 7: "pa", 8: "PA.exe", 9: "vim"})
	got, err := Others()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Others() = %v, want pids 7 and 8", got)
	}
	for _, h := range got {
		if h.Pid == 100 || h.Pid == 9 {
			t.Errorf("Others() included pid %d", h.Pid)
		}
	}
}
