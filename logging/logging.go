// Package logging provides the leveled logger injected into the engine,
// boundary and host layers. The debug tier carries per-operation diagnostics
// and is disabled by default; it is selected at runtime, not at build time.
package logging

import (
	"io"
	"log"
)

// Level selects which messages a Logger emits.
type Level int

const (
	// LevelError emits failures only.
	LevelError Level = iota
	// LevelInfo additionally emits lifecycle messages. This is the default.
	LevelInfo
	// LevelDebug additionally emits per-operation diagnostics.
	LevelDebug
)

// Logger is the capability handed to the core components. Implementations
// must be safe for use from a single goroutine at a time, which matches the
// gateway's call model.
type Logger interface {
	Error(format string, args ...any)
	Info(format string, args ...any)
	Debug(format string, args ...any)
}

type logger struct {
	out   *log.Logger
	level Level
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	return &logger{
		out:   log.New(w, "svdb ", log.LstdFlags),
		level: level,
	}
}

func (l *logger) Error(format string, args ...any) {
	l.out.Printf("ERROR "+format, args...)
}

func (l *logger) Info(format string, args ...any) {
	if l.level >= LevelInfo {
		l.out.Printf("INFO "+format, args...)
	}
}

func (l *logger) Debug(format string, args ...any) {
	if l.level >= LevelDebug {
		l.out.Printf("DEBUG "+format, args...)
	}
}

type nop struct{}

func (nop) Error(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Debug(string, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{}
}
