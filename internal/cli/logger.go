package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger provides leveled logging for CLI tools. Info lines need Verbose and
// Debug lines need DebugMode; warnings and errors are always written.
type Logger struct {
	Verbose   bool
	DebugMode bool

	mu     sync.Mutex
	out    io.Writer
	levels map[string]*color.Color
}

// NewLogger creates a logger writing to out. colored enables ANSI colors on
// the level tag regardless of the global color setting.
func NewLogger(out io.Writer, verbose, debug, colored bool) *Logger {
	levels := map[string]*color.Color{
		"INFO":  color.New(color.FgHiBlue),
		"DEBUG": color.New(color.FgHiBlack),
		"WARN":  color.New(color.FgYellow),
		"ERROR": color.New(color.Bold, color.FgRed),
	}
	for _, c := range levels {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		out:       out,
		levels:    levels,
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		l.log("INFO", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.log("DEBUG", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

// log serializes writes so concurrent parse workers do not interleave lines.
func (l *Logger) log(level, format string, args ...interface{}) {
	tag := l.levels[level].Sprintf("[%s]", level)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s: %s\n", tag, time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}
