package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger writes timestamped, leveled lines to a log file. It is the
// logger used during dashboard sessions, where stderr belongs to the
// terminal UI. A FileLogger with no file is a no-op, so callers never
// need to branch on logging being disabled.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileLogger creates a logger writing to the specified path.
// If the path is empty, returns a no-op logger.
// Creates parent directories if they don't exist.
func NewFileLogger(logPath string) (*FileLogger, error) {
	if logPath == "" {
		return &FileLogger{}, nil
	}

	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &FileLogger{file: f}
	l.write("INFO", "=== heatwatch log started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// NewFileLoggerForWorkspace creates a file logger under the workspace's
// state directory. Returns a no-op logger if the file cannot be opened.
func NewFileLoggerForWorkspace(root string) *FileLogger {
	logPath := filepath.Join(root, "state", "heatwatch.log")
	l, err := NewFileLogger(logPath)
	if err != nil {
		return &FileLogger{}
	}
	return l
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] %s %s\n", timestamp, level, msg)
	l.file.Sync()
}

func (l *FileLogger) Debug(format string, args ...interface{}) {
	l.write("DEBUG", format, args...)
}

func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// Close closes the log file. Safe to call on a no-op logger.
func (l *FileLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
