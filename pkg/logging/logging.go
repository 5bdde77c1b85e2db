// Package logging provides the interpreter's process-diagnostics logger:
// a lager.Logger session tree for operational logs that sit alongside,
// and are never a substitute for, the user-facing metadata.LogEntry
// trail a Record accumulates.
package logging

import (
	"os"

	"code.cloudfoundry.org/lager/v3"
)

// NewLogger returns a lager.Logger named component, writing
// JSON-formatted lines to stderr at INFO and above.
func NewLogger(component string) lager.Logger {
	logger := lager.NewLogger(component)
	logger.RegisterSink(lager.NewWriterSink(os.Stderr, lager.INFO))
	return logger
}

// Discard returns a lager.Logger with no sinks registered, for callers
// (tests, library embedders) that don't want interpreter diagnostics on
// stderr by default.
func Discard() lager.Logger {
	return lager.NewLogger("liquers")
}
