// Package dbglog provides env-gated debug output and structured statement
// tracing for the canonical envelope (load -> lock -> mutate -> save).
package dbglog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("RELDB_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Enabled reports whether debug output is currently active.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output for the remainder of the process.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppresses non-essential output).
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes a debug line to stderr when debug output is enabled.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Printf writes to stdout when debug output is enabled.
func Printf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Printf(format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled.
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}

// Envelope traces one step of the canonical envelope (load/lock/mutate/save)
// for a given statement and table. Guarded by logMutex so the parallel
// per-table rewrite step doesn't interleave log lines.
func Envelope(statement, table, step string) {
	if !(enabled || verboseMode) {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	logger.Info("envelope", "statement", statement, "table", table, "step", step)
}
