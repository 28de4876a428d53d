// Package logger writes application events to per-session log files
// under the state directory. Each session gets a timestamped file and a
// latest.log symlink pointing at it.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// FileLogger is a thread-safe, level-filtered file logger.
type FileLogger struct {
	logDir  string
	runLog  *os.File
	runFile string
	level   int
	mu      sync.Mutex
}

// New opens a session log file run-YYYYMMDD-HHMMSS.log in logDir,
// creating the directory as needed, and points latest.log at it.
// Messages below level are dropped; unknown levels mean INFO.
func New(logDir, level string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating session log: %w", err)
	}

	// Repoint latest.log at the new session. A stale link from a
	// previous run is removed first.
	linkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(linkPath); err == nil {
		if err := os.Remove(linkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("removing old latest.log: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), linkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("linking latest.log: %w", err)
	}

	l := &FileLogger{
		logDir:  logDir,
		runLog:  file,
		runFile: runFile,
		level:   levelFromName(level),
	}
	l.write("=== ConvDesk Run Log ===\n")
	l.write(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))
	return l, nil
}

// Discard returns a logger that drops everything. Useful where a
// logger is required but no session file is wanted.
func Discard() *FileLogger {
	return &FileLogger{level: levelError + 1}
}

// Path returns the session log file location.
func (l *FileLogger) Path() string {
	return l.runFile
}

func (l *FileLogger) Debug(message string) { l.log(levelDebug, "DEBUG", message) }
func (l *FileLogger) Info(message string)  { l.log(levelInfo, "INFO", message) }
func (l *FileLogger) Warn(message string)  { l.log(levelWarn, "WARN", message) }
func (l *FileLogger) Error(message string) { l.log(levelError, "ERROR", message) }

func (l *FileLogger) log(level int, tag, message string) {
	if level < l.level {
		return
	}
	l.write(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), tag, message))
}

// Close flushes and closes the session log.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.runLog == nil {
		return nil
	}
	if err := l.runLog.Sync(); err != nil {
		return fmt.Errorf("syncing session log: %w", err)
	}
	if err := l.runLog.Close(); err != nil {
		return fmt.Errorf("closing session log: %w", err)
	}
	l.runLog = nil
	return nil
}

// write appends to the session log under the mutex. Each write is
// synced so a crash loses at most the line being written.
func (l *FileLogger) write(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.runLog != nil {
		l.runLog.WriteString(message)
		l.runLog.Sync()
	}
}

// levelFromName maps a configured level name to its rank. WARNING is
// accepted as an alias for WARN.
func levelFromName(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}
