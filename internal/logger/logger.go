// Package logger provides opt-in diagnostic logging for the extraction
// pipeline. Nothing is written unless verbose mode is on, keeping the
// normal command output clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
)

var state = struct {
	sync.RWMutex
	verbose bool
	out     io.Writer
}{out: os.Stderr}

// SetVerbose turns diagnostic output on or off. Wired to --verbose.
func SetVerbose(v bool) {
	state.Lock()
	defer state.Unlock()
	state.verbose = v
}

// IsVerbose reports whether diagnostic output is enabled.
func IsVerbose() bool {
	state.RLock()
	defer state.RUnlock()
	return state.verbose
}

// SetOutput redirects diagnostic output away from stderr, primarily
// for tests.
func SetOutput(w io.Writer) {
	state.Lock()
	defer state.Unlock()
	state.out = w
}

func emit(l level, format string, args ...any) {
	state.RLock()
	defer state.RUnlock()
	if !state.verbose {
		return
	}
	fmt.Fprintf(state.out, "[%s] %s\n", l, fmt.Sprintf(format, args...))
}

// Debug logs fine-grained pipeline progress.
func Debug(format string, args ...any) { emit(levelDebug, format, args...) }

// Info logs run-level milestones.
func Info(format string, args ...any) { emit(levelInfo, format, args...) }

// Warn logs recoverable problems, such as a skipped document.
func Warn(format string, args ...any) { emit(levelWarn, format, args...) }

// Section prints a visual divider between pipeline phases.
func Section(name string) {
	state.RLock()
	defer state.RUnlock()
	if !state.verbose {
		return
	}
	fmt.Fprintf(state.out, "\n=== %s ===\n", name)
}
