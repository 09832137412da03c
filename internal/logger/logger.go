// Package logger provides verbose logging for assetdeck.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr so users can see feed requests, storage fallbacks, and other
// conditions the application otherwise recovers from silently.
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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing and for the TUI, which owns
// the terminal while it runs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if component != "" {
		format = component + ": " + format
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("WARN", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Component tags messages with the subsystem that produced them.
type Component string

// For returns a logger that prefixes messages with name.
func For(name string) Component {
	return Component(name)
}

// Debug prints a tagged debug message.
func (c Component) Debug(format string, args ...any) {
	write("DEBUG", string(c), format, args...)
}

// Info prints a tagged informational message.
func (c Component) Info(format string, args ...any) {
	write("INFO", string(c), format, args...)
}

// Warn prints a tagged warning.
func (c Component) Warn(format string, args ...any) {
	write("WARN", string(c), format, args...)
}
