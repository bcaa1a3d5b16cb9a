// Package config reads the optional YAML config file and resolves the paths
// everything else works from.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/utils"
)

// Config is the on-disk config file shape. Zero values mean "use the default".
type Config struct {
	StorePath  string `yaml:"store_path"`
	Backend    string `yaml:"backend"`
	BackupDir  string `yaml:"backup_dir"`
	MaxBackups int    `yaml:"max_backups"`
	ExportDir  string `yaml:"export_dir"`
	Debug      bool   `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		StorePath:  constants.DefaultStorePath,
		Backend:    constants.BackendSQLite,
		MaxBackups: constants.MaxBackups,
		ExportDir:  ".",
	}
}

// Load reads path over the defaults. A missing file is not an error; a file
// that does not parse is.
func Load(path string) (Config, error) {
	cfg := Default()
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	raw, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg.resolve()
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", expanded, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}
	cfg.merge(file)
	return cfg.resolve()
}

// Overrides are values set on the command line; empty fields are ignored.
type Overrides struct {
	StorePath string
	Backend   string
	Debug     bool
}

// Apply layers o on top of c.
func (c Config) Apply(o Overrides) (Config, error) {
	c.merge(Config{StorePath: o.StorePath, Backend: o.Backend, Debug: o.Debug})
	return c.resolve()
}

// Dir is the directory holding the store; logs and the lockfile live here.
func (c Config) Dir() string {
	return filepath.Dir(c.StorePath)
}

// Backups is the backup directory, next to the store unless configured.
func (c Config) Backups() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Join(c.Dir(), constants.BackupDirName)
}

func (c *Config) merge(o Config) {
	if o.StorePath != "" {
		c.StorePath = o.StorePath
	}
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.BackupDir != "" {
		c.BackupDir = o.BackupDir
	}
	if o.MaxBackups != 0 {
		c.MaxBackups = o.MaxBackups
	}
	if o.ExportDir != "" {
		c.ExportDir = o.ExportDir
	}
	c.Debug = c.Debug || o.Debug
}

// resolve expands paths, fills derived defaults and validates.
func (c Config) resolve() (Config, error) {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case constants.BackendSQLite, constants.BackendJSON:
	default:
		return c, fmt.Errorf("unknown backend %q in config (expected %s or %s)", c.Backend, constants.BackendSQLite, constants.BackendJSON)
	}
	if c.MaxBackups < 0 {
		return c, fmt.Errorf("max_backups must be >= 0, got %d", c.MaxBackups)
	}

	var err error
	if c.StorePath, err = utils.ExpandPath(c.StorePath); err != nil {
		return c, err
	}
	if c.BackupDir != "" {
		if c.BackupDir, err = utils.ExpandPath(c.BackupDir); err != nil {
			return c, err
		}
	}
	if c.ExportDir, err = utils.ExpandPath(c.ExportDir); err != nil {
		return c, err
	}
	return c, nil
}
