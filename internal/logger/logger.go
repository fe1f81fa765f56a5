// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger *log.Logger

// file is the log file behind Logger, if any.
var file *os.File

func init() {
	Logger = New(os.Stderr)
}

// New creates a logger writing to w at info level without timestamps.
func New(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	l.SetLevel(log.InfoLevel)
	return l
}

// Configure replaces the global logger. An empty logFile keeps stderr; the
// special value "-" discards output. A file opened by an earlier call is
// closed.
func Configure(logLevel, logFile string) error {
	var (
		output io.Writer = os.Stderr
		opened *os.File
	)
	switch logFile {
	case "":
	case "-":
		output = io.Discard
	default:
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		output, opened = f, f
	}

	l := New(output)
	l.SetLevel(ParseLevel(logLevel))
	if logFile != "" && logFile != "-" {
		l.SetReportTimestamp(true)
	}
	Logger = l
	prev := file
	file = opened
	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close closes the log file, if any, and falls back to stderr.
func Close() error {
	if file == nil {
		return nil
	}
	Logger = New(os.Stderr)
	err := file.Close()
	file = nil
	return err
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}
