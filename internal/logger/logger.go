package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/pa/internal/constants"
)

// Logger is nil until Init; the wrappers below are no-ops until then.
var Logger *log.Logger

var file string

type Config struct {
	Debug bool
	// ConfigDir is the directory holding the store; logs go in its logs/ subdirectory.
	ConfigDir string
}

// Init opens the rotating log file. In debug mode records are mirrored to
// stderr; otherwise the terminal is left to the TUI.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	file = filepath.Join(logDir, constants.AppName+".log")

	var writer io.Writer = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	Logger.Debug("logger ready",
		"version", constants.Version,
		"schema", constants.SchemaVersion,
		"key", constants.StoreKey,
		"file", file)
	return nil
}

// File is the active log file, or "" before Init.
func File() string {
	if Logger == nil {
		return ""
	}
	return file
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
