// Package logger provides levelled logging for docqa.
//
// Warnings and errors are always written, since they mark requests that
// were answered with a fallback. Info and debug lines only appear with
// --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// timeLayout is the timestamp prefix of every line.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Section prints a header for a multi-step operation if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "INFO", format, args...)
}

// Warn prints a warning. Used when an upstream failure degrades a result.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args...)
}

// Error prints an error that aborted an operation.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args...)
}

func write(verboseOnly bool, level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, "%s [%s] %s\n", now().Format(timeLayout), level, fmt.Sprintf(format, args...))
}
