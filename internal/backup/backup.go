// Package backup keeps a rotating set of snapshot exports on disk.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/persistence"
)

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for one directory.
type Manager struct {
	backupDir  string
	maxBackups int
}

// NewManager returns a manager for dir keeping at most max files
// (constants.MaxBackups when max <= 0).
func NewManager(dir string, max int) *Manager {
	if max <= 0 {
		max = constants.MaxBackups
	}
	return &Manager{backupDir: dir, maxBackups: max}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup exports data as JSON into the backup directory and prunes the
// oldest files beyond the retention limit.
func (m *Manager) CreateBackup(data models.AppData, now time.Time) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	art, err := persistence.Export(data, now, constants.FormatJSON)
	if err != nil {
		return "", err
	}

	path, err := m.uniquePath(art.Filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, art.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := m.rotateBackups(); err != nil {
		// Rotation failures never fail the backup itself.
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

// uniquePath appends -1, -2, ... before the extension when two backups land
// in the same minute.
func (m *Manager) uniquePath(name string) (string, error) {
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for counter := 1; counter <= 100; counter++ {
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// ListBackups returns every recognizable backup, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type entry struct {
		BackupInfo
		counter int
	}
	var found []entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stamp, counter, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{
			BackupInfo: BackupInfo{
				Path:      filepath.Join(m.backupDir, e.Name()),
				Timestamp: stamp,
				Size:      info.Size(),
			},
			counter: counter,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].Timestamp.Equal(found[j].Timestamp) {
			return found[i].Timestamp.After(found[j].Timestamp)
		}
		return found[i].counter > found[j].counter
	})

	out := make([]BackupInfo, len(found))
	for i, f := range found {
		out[i] = f.BackupInfo
	}
	return out, nil
}

// parseName extracts the local timestamp and collision counter from a
// backup file name.
func parseName(name string) (time.Time, int, bool) {
	ext := filepath.Ext(name)
	if ext != "."+constants.FormatJSON && ext != "."+constants.FormatYAML {
		return time.Time{}, 0, false
	}
	if !strings.HasPrefix(name, constants.ExportFilePrefix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, constants.ExportFilePrefix), ext)

	counter := 0
	if len(rest) > len(constants.ExportStampFormat) {
		n, err := strconv.Atoi(strings.TrimPrefix(rest[len(constants.ExportStampFormat):], "-"))
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		counter = n
		rest = rest[:len(constants.ExportStampFormat)]
	}
	stamp, err := time.ParseInLocation(constants.ExportStampFormat, rest, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return stamp, counter, true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("removed old backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup reads and validates a backup. Nothing is written; the caller
// persists the returned snapshot.
func (m *Manager) RestoreBackup(path string) (models.AppData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.AppData{}, fmt.Errorf("failed to read backup: %w", err)
	}
	return persistence.Import(raw)
}

// Latest returns the newest backup, or false when there is none.
func (m *Manager) Latest() (BackupInfo, bool, error) {
	backups, err := m.ListBackups()
	if err != nil || len(backups) == 0 {
		return BackupInfo{}, false, err
	}
	return backups[0], true, nil
}
