// Package logger writes the screening pipeline's progress output.
// All output goes to stderr and only when verbose mode is on, so
// the data written to stdout stays clean for piping.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose turns verbose logging on or off.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output, os.Stderr by default. Tests use it
// to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// logf writes one prefixed, newline-terminated line when verbose mode
// is on.
func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug logs pipeline detail useful when diagnosing a run.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Section marks the start of a pipeline stage.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Info logs a stage summary.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn logs a recoverable problem the run continued past.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}
