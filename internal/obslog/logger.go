// Package obslog wires the core's ambient logging concern to zerolog.
//
// Components never reach for the global logger directly; they accept a
// zerolog.Logger (or embed one) so callers can inject their own sink. The
// package-level Logger exists only as the default used when nothing was
// injected, mirroring a reference debug/verbose_logging split but routed
// through zerolog's leveled logger instead of a build-tag no-op.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the default logger used by components that were not given one
// explicitly. It starts out writing nothing (io.Discard) so embedding the
// core into a caller is silent by default.
var Logger zerolog.Logger = zerolog.New(io.Discard)

// SetLogger replaces the default logger, e.g. with a console writer during
// CLI use or a JSON sink in production.
func SetLogger(l zerolog.Logger) {
	Logger = l
}

// NewConsole returns a human-readable console logger at the given level,
// suitable for cmd/simulate.
func NewConsole(level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
