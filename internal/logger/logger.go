// Package logger provides leveled logging for the CLI.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Logger is the logging interface consumed by the other packages.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Noop is a Logger implementation that discards everything.
type Noop struct{}

func (Noop) Debug(format string, args ...interface{}) {}
func (Noop) Info(format string, args ...interface{})  {}
func (Noop) Warn(format string, args ...interface{})  {}
func (Noop) Error(format string, args ...interface{}) {}

// Level defines log severity levels.
type Level int

const (
	// Levels from least to most restrictive
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// ParseLevel converts a string level to a Level, defaulting to Info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Log writes leveled, optionally colored messages to a single output.
type Log struct {
	out       io.Writer
	useColors bool
	level     Level
}

// New creates a Log writing to out at the given level.
func New(out io.Writer, level Level, useColors bool) *Log {
	return &Log{
		out:       out,
		useColors: useColors,
		level:     level,
	}
}

// Debug logs a debug message.
func (l *Log) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		prefix := "DEBUG"
		if l.useColors {
			prefix = color.CyanString(prefix)
		}
		fmt.Fprintf(l.out, "[%s %s] %s\n", timeString(), prefix, fmt.Sprintf(format, args...))
	}
}

// Info logs an informational message (standard level).
func (l *Log) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		prefix := "INFO"
		if l.useColors {
			prefix = color.BlueString(prefix)
		}
		fmt.Fprintf(l.out, "[%s %s] %s\n", timeString(), prefix, fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message.
func (l *Log) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		prefix := "WARN"
		if l.useColors {
			prefix = color.YellowString(prefix)
		}
		fmt.Fprintf(l.out, "[%s %s] %s\n", timeString(), prefix, fmt.Sprintf(format, args...))
	}
}

// Error logs an error message.
func (l *Log) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		prefix := "ERROR"
		if l.useColors {
			prefix = color.RedString(prefix)
		}
		fmt.Fprintf(l.out, "[%s %s] %s\n", timeString(), prefix, fmt.Sprintf(format, args...))
	}
}

// timeString returns a formatted time string for the log prefix.
func timeString() string {
	return time.Now().Format("15:04:05.000")
}
