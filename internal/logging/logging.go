// Package logging provides the single print/log sink that the rest of the
// library routes through, dispatching on a runtime mode set once at
// startup by the CLI.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Mode controls how warnings and informational messages are rendered.
type Mode int32

const (
	// ModeNormal prefixes messages with bracketed markers ("[!]", "[*]").
	ModeNormal Mode = iota
	// ModeAccessible strips decorations for screen readers.
	ModeAccessible
	// ModeGreppable silences everything except fatal errors.
	ModeGreppable
)

var mode atomic.Int32

// verboseLevel backs the structured handler's minimum level. It starts at
// Info, so Debug is a no-op until SetVerbose(true) lowers it; this is the
// knob SetVerbose raises and structured() reads on every call.
var verboseLevel slog.LevelVar

// SetMode sets the process-wide output mode. Called once, at startup.
func SetMode(m Mode) {
	mode.Store(int32(m))
}

// SetVerbose raises or lowers the structured handler's minimum level,
// called once at startup from the --verbose flag. Without calling this,
// Debug never produces output.
func SetVerbose(v bool) {
	if v {
		verboseLevel.Set(slog.LevelDebug)
	} else {
		verboseLevel.Set(slog.LevelInfo)
	}
}

func currentMode() Mode {
	return Mode(mode.Load())
}

// Warnf logs a non-fatal warning to stderr, per the current mode.
func Warnf(format string, args ...any) {
	switch currentMode() {
	case ModeGreppable:
		return
	case ModeAccessible:
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	default:
		fmt.Fprintf(os.Stderr, "[!] "+format+"\n", args...)
	}
}

// Infof logs an informational message to stderr, per the current mode.
func Infof(format string, args ...any) {
	switch currentMode() {
	case ModeGreppable:
		return
	case ModeAccessible:
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	default:
		fmt.Fprintf(os.Stderr, "[*] "+format+"\n", args...)
	}
}

// Fatalf logs a fatal error to stderr regardless of mode; it never suppresses.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[x] "+format+"\n", args...)
}

// structured returns a slog.Logger for components that want leveled,
// attributed log lines (e.g. the scan engine's diagnostic error set)
// instead of the plain warning/info helpers above. The handler's level
// tracks verboseLevel, so it reflects whatever SetVerbose last set.
func structured() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: &verboseLevel,
	}))
}

// Debug emits a structured debug-level record; used by the scan engine to
// record per-probe errors without promoting them to user-visible warnings.
func Debug(msg string, args ...any) {
	if currentMode() == ModeGreppable {
		return
	}
	structured().Debug(msg, args...)
}
