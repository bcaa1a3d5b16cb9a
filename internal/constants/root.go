package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "pa"
	Version           = "v0.1.0"
	DefaultConfigDir  = "~/.config/pa"
	DefaultConfigFile = DefaultConfigDir + "/config.yaml"
	DefaultStorePath  = DefaultConfigDir + "/pa.db"

	// StoreKey is the single key-value slot holding the persisted snapshot.
	StoreKey = "pa.appData.v1"

	// SchemaVersion is the only snapshot version this build reads natively.
	SchemaVersion = 1

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is how every ...Iso field is written.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Storage backends
	BackendSQLite = "sqlite"
	BackendJSON   = "json"

	// Export constants
	ExportFilePrefix  = "personal-assistant-backup-"
	ExportStampFormat = "2006-01-02_15-04"
	FormatJSON        = "json"
	FormatYAML        = "yaml"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"

	// Instance lockfile
	LockfileName = "pa.lock"

	// Skill defaults
	DefaultPriority          = 2
	MinPriority              = 1
	MaxPriority              = 4
	DefaultDailyGoalMinutes  = 30
	DefaultWeeklyGoalMinutes = 150

	// Schedule block defaults
	DefaultBlockStart   = "06:00"
	DefaultBlockMinutes = 30
)

// Session States
const (
	StateSkills SessionState = iota
	StateAddSkill
	StateLogMinutes
	StateAddBlock
	StateConfirmDelete
	StateImport
)

// RefreshInterval is how often the TUI re-renders so expectations track the wall clock.
const RefreshInterval = 30 * time.Second
