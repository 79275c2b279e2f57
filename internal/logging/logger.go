// Package logging provides categorized file-based logging for PgWarp.
// Logs are written to <config-dir>/logs/ with separate files per category.
// Logging is controlled by the debug flag in settings.json - when false, no
// logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot         Category = "boot"         // Startup and shutdown
	CategoryStore        Category = "store"        // Variable store mutations
	CategoryPersist      Category = "persist"      // saved_variables.json reads/writes
	CategoryWatch        Category = "watch"        // File watcher events
	CategoryAutocomplete Category = "autocomplete" // Suggestion popup activity
	CategoryQueries      Category = "queries"      // Saved queries
	CategoryUI           Category = "ui"           // TUI pages
)

// settingsFile mirrors the relevant part of config.Settings to avoid a
// circular import.
type settingsFile struct {
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	debugMode bool
	logLevel  int // 0=debug, 1=info, 2=warn, 3=error
	configMu  sync.RWMutex
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory and reads the debug flag.
// Call once at startup with the PgWarp config directory. With the flag off
// (or settings.json absent) every logger is a silent no-op.
func Initialize(configDir string) error {
	if configDir == "" {
		return fmt.Errorf("config directory required")
	}

	loadSettings(configDir)

	if !IsDebugMode() {
		return nil
	}

	configMu.Lock()
	logsDir = filepath.Join(configDir, "logs")
	configMu.Unlock()

	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== PgWarp logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	return nil
}

func loadSettings(configDir string) {
	configMu.Lock()
	defer configMu.Unlock()

	data, err := os.ReadFile(filepath.Join(configDir, "settings.json"))
	if err != nil {
		debugMode = false
		return
	}
	var sf settingsFile
	if err := json.Unmarshal(data, &sf); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not parse settings: %v\n", err)
		debugMode = false
		return
	}
	debugMode = sf.Debug

	switch sf.LogLevel {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return debugMode
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled.
func Get(category Category) *Logger {
	if !IsDebugMode() || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date-prefixed files keep rotation a plain delete.
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message (only if level <= info).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message (only if level <= warn).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always logged if logger exists).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// Shutdown closes all open log files.
func Shutdown() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}
