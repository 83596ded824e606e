package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LogLevel defines the severity level for log messages.
type LogLevel int

// Constants for predefined log levels.
const (
	LevelDebug LogLevel = iota // Debug: Detailed information for diagnosing problems.
	LevelInfo                  // Info: General operational information.
	LevelWarn                  // Warn: Potential issues or unusual occurrences.
	LevelError                 // Error: Errors that occurred but allow the application to continue.
)

// levelToString maps LogLevel enum values to their string representations (e.g., "INFO", "ERROR").
var levelToString = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// stringToLevel maps string representations of log levels to LogLevel enum values.
// This is useful for parsing log levels from configuration (LOG_LEVEL).
var stringToLevel = map[string]LogLevel{
	"DEBUG": LevelDebug,
	"INFO":  LevelInfo,
	"WARN":  LevelWarn,
	"ERROR": LevelError,
}

// LogEntry represents a single structured log record.
// It is marshaled into JSON Lines format. Fields are tagged with
// `json:"...,omitempty"` so zero-valued fields are excluded from the output.
type LogEntry struct {
	Timestamp  string                 `json:"timestamp"`             // ISO 8601 (UTC) timestamp of the log event.
	Level      string                 `json:"level"`                 // Severity level of the log (e.g., "INFO", "ERROR").
	Message    string                 `json:"message"`               // The main log message.
	RunID      string                 `json:"run_id,omitempty"`      // ID of the current run, if applicable.
	Target     string                 `json:"target,omitempty"`      // Target URL or ID being acted upon.
	Action     string                 `json:"action,omitempty"`      // Action being performed (e.g., "like", "follow").
	Method     string                 `json:"method,omitempty"`      // HTTP request method.
	Attempt    int                    `json:"attempt,omitempty"`     // 1-based attempt number within a retry loop.
	StatusCode int                    `json:"status_code,omitempty"` // HTTP status code received, if any.
	Proxy      string                 `json:"proxy,omitempty"`       // Proxy used for the requests, if any.
	Outcome    string                 `json:"outcome,omitempty"`     // Result of an operation (e.g., "ok", "rate_limited", "exhausted").
	Error      string                 `json:"error,omitempty"`       // Error message if an error occurred.
	Extra      map[string]interface{} `json:"extra,omitempty"`       // Any other contextual data relevant to the entry.
}

// Logger provides a structured JSON logger that writes log entries to an io.Writer.
// It supports different log levels and ensures thread-safe write operations.
type Logger struct {
	writer   io.Writer
	minLevel LogLevel
	mu       sync.Mutex
}

// NewLogger creates and returns a new Logger instance.
//
// Parameters:
//   - writer: The io.Writer where log entries will be written (e.g., os.Stderr, a file).
//   - minLevelStr: The minimum log level as a string (e.g., "INFO", "DEBUG").
//     If an invalid string is provided, it defaults to LevelInfo.
func NewLogger(writer io.Writer, minLevelStr string) *Logger {
	level, ok := stringToLevel[strings.ToUpper(minLevelStr)]
	if !ok {
		level = LevelInfo
	}
	return &Logger{
		writer:   writer,
		minLevel: level,
	}
}

// Log writes a LogEntry at the specified LogLevel if the level is at or above
// the Logger's minimum level. The entry is augmented with a timestamp and the
// string representation of the level before being marshaled to JSON and
// written as a single line. Writes are thread-safe.
// If JSON marshaling fails, a fallback plain text error is logged instead.
func (l *Logger) Log(level LogLevel, entry LogEntry) {
	if level < l.minLevel {
		return
	}

	entry.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	entry.Level = levelToString[level]

	l.mu.Lock()
	defer l.mu.Unlock()

	jsonData, err := json.Marshal(entry)
	if err != nil {
		// Fallback to a simple error log if marshaling fails, to avoid losing error information.
		fmt.Fprintf(l.writer, "{\"timestamp\":\"%s\",\"level\":\"ERROR\",\"message\":\"Failed to marshal log entry\",\"original_level\":\"%s\",\"error\":\"%s\"}\n",
			time.Now().UTC().Format(time.RFC3339Nano), entry.Level, err.Error())
		return
	}

	fmt.Fprintln(l.writer, string(jsonData))
}

// Debug logs a message at LevelDebug.
func (l *Logger) Debug(entry LogEntry) {
	l.Log(LevelDebug, entry)
}

// Info logs a message at LevelInfo.
func (l *Logger) Info(entry LogEntry) {
	l.Log(LevelInfo, entry)
}

// Warn logs a message at LevelWarn.
func (l *Logger) Warn(entry LogEntry) {
	l.Log(LevelWarn, entry)
}

// Error logs a message at LevelError.
func (l *Logger) Error(entry LogEntry) {
	l.Log(LevelError, entry)
}
