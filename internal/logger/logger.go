// Package logger provides leveled logging for the bot. It wraps the standard
// log package with level-based filtering so chatty interaction-level debug
// output can be switched off in production without touching call sites.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	// DebugLevel logs are voluminous (per-keystroke autocomplete, cache hits)
	// and are usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs flag degraded but non-fatal conditions, such as a league
	// entry shipping without rate fields.
	WarnLevel
	// ErrorLevel logs are high-priority failures scoped to one interaction.
	ErrorLevel
)

// ParseLevel maps a config string to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger filters messages below its level before handing them to a stdlib logger.
type Logger struct {
	level Level
	out   *log.Logger
}

var defaultLogger = &Logger{level: InfoLevel, out: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}

// Init configures the package-level logger. Format "text" adds caller
// file:line to each entry; any other value keeps timestamps only.
func Init(level, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	defaultLogger = &Logger{
		level: ParseLevel(level),
		out:   log.New(os.Stderr, "", flags),
	}
}

// SetOutput redirects the package-level logger, used by tests.
func SetOutput(w io.Writer) {
	defaultLogger.out.SetOutput(w)
}

func (l *Logger) log(at Level, tag, format string, args ...interface{}) {
	if l.level > at {
		return
	}
	_ = l.out.Output(3, tag+fmt.Sprintf(format, args...))
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...interface{}) {
	defaultLogger.log(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel.
func Info(format string, args ...interface{}) {
	defaultLogger.log(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel.
func Warn(format string, args ...interface{}) {
	defaultLogger.log(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel.
func Error(format string, args ...interface{}) {
	defaultLogger.log(ErrorLevel, "[ERROR] ", format, args...)
}

// Fatal logs a message and exits the process.
func Fatal(format string, args ...interface{}) {
	_ = defaultLogger.out.Output(2, "[FATAL] "+fmt.Sprintf(format, args...))
	os.Exit(1)
}
