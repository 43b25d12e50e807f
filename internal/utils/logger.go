package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes leveled lines to stderr and, when a log directory is
// configured, to a per-run file as well.
type Logger struct {
	file   *os.File
	logger *log.Logger
	debug  bool
}

// NewLogger creates a logger. With an empty logsDir nothing is written to disk.
func NewLogger(logsDir string, debug bool) (*Logger, error) {
	if logsDir == "" {
		return NewWriterLogger(os.Stderr, debug), nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logsDir, fmt.Sprintf("sitemap_%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := NewWriterLogger(io.MultiWriter(os.Stderr, file), debug)
	l.file = file
	return l, nil
}

// NewWriterLogger logs to w only.
func NewWriterLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		logger: log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		debug:  debug,
	}
}

func (l *Logger) LogInfo(format string, v ...interface{}) {
	l.log("INFO", format, v...)
}

func (l *Logger) LogWarn(format string, v ...interface{}) {
	l.log("WARN", format, v...)
}

func (l *Logger) LogError(format string, v ...interface{}) {
	l.log("ERROR", format, v...)
}

// LogDebug is dropped unless the logger was created with debug enabled.
func (l *Logger) LogDebug(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.log("DEBUG", format, v...)
}

func (l *Logger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", level, message)
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
