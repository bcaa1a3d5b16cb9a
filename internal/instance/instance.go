// Package instance detects other running copies of pa. It only warns: the
// store is last-writer-wins and nothing here blocks startup.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/utils"
)

var (
	findProcessFunc = ps.FindProcess
	processesFunc   = ps.Processes
	selfPidFunc     = os.Getpid
)

// Holder is a live process that owns the lockfile.
type Holder struct {
	Pid        int
	Executable string
	Since      time.Time
}

func (h Holder) String() string {
	return fmt.Sprintf("%s (pid %d) since %s", h.Executable, h.Pid, h.Since.Local().Format(constants.DateFormat+" "+constants.TimeFormat))
}

// Guard owns a pid lockfile of the form "pid|startedAtIso".
type Guard struct {
	path string
}

// NewGuard places the lockfile in dir.
func NewGuard(dir string) *Guard {
	return &Guard{path: filepath.Join(dir, constants.LockfileName)}
}

func (g *Guard) Path() string {
	return g.path
}

// Acquire records this process in the lockfile. If another live pa process
// already holds it, that holder is returned alongside a successful write so
// the caller can warn.
func (g *Guard) Acquire(now time.Time) (*Holder, error) {
	holder, err := g.Holder()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0700); err != nil {
		return holder, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%s", selfPidFunc(), utils.FormatTimestamp(now))
	if err := os.WriteFile(g.path, []byte(content), 0600); err != nil {
		return holder, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return holder, nil
}

// Release removes the lockfile if this process still owns it.
func (g *Guard) Release() error {
	pid, _, err := readLockfile(g.path)
	if err != nil || pid != selfPidFunc() {
		return nil
	}
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Holder returns the live pa process named in the lockfile, or nil when the
// file is missing, stale, malformed or names this process.
func (g *Guard) Holder() (*Holder, error) {
	pid, since, err := readLockfile(g.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		logger.Debug("ignoring malformed lockfile", "path", g.path, "error", err)
		return nil, nil
	}
	if pid == selfPidFunc() {
		return nil, nil
	}
	process, err := findProcessFunc(pid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pid %d: %w", pid, err)
	}
	if process == nil || !isPA(process.Executable()) {
		return nil, nil
	}
	return &Holder{Pid: pid, Executable: process.Executable(), Since: since}, nil
}

// Others lists every running pa process except this one.
func Others() ([]Holder, error) {
	procs, err := processesFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	self := selfPidFunc()
	var out []Holder
	for _, p := range procs {
		if p.Pid() == self || !isPA(p.Executable()) {
			continue
		}
		out = append(out, Holder{Pid: p.Pid(), Executable: p.Executable()})
	}
	return out, nil
}

func readLockfile(path string) (int, time.Time, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	pidText, stamp, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok {
		return 0, time.Time{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(pidText)
	if err != nil || pid < 1 {
		return 0, time.Time{}, errors.New("invalid process ID in lockfile")
	}
	since, err := utils.ParseTimestamp(stamp)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid timestamp in lockfile: %w", err)
	}
	return pid, since, nil
}

func isPA(executable string) bool {
	name := strings.TrimSuffix(strings.ToLower(executable), ".exe")
	return name == constants.AppName
}
