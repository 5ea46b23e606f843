// Package logging provides levelled key/value logging.
//
// Output goes to stderr because stdout carries the MCP protocol stream.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LevelEnv is the environment variable that enables debug output when set to "debug".
const LevelEnv = "LFA_MCP_LOG_LEVEL"

// Logger writes prefixed log lines with key=value pairs.
type Logger struct {
	prefix string
	debug  bool
	logger *log.Logger
}

// NewLogger creates a logger on stderr. Debug lines are enabled by LevelEnv.
func NewLogger(prefix string) *Logger {
	return New(prefix, os.Stderr, strings.EqualFold(os.Getenv(LevelEnv), "debug"))
}

// New creates a logger writing to w.
func New(prefix string, w io.Writer, debug bool) *Logger {
	return &Logger{
		prefix: prefix,
		debug:  debug,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New("", io.Discard, false)
}

// Named returns a logger sharing l's output and level under another prefix.
func (l *Logger) Named(prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		debug:  l.debug,
		logger: log.New(l.logger.Writer(), fmt.Sprintf("[%s] ", prefix), l.logger.Flags()),
	}
}

// DebugEnabled reports whether Debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v=(missing)", keysAndValues[i])
		}
	}
	l.logger.Printf("[%s] %s%s", level, msg, b.String())
}
