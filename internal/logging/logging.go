// Package logging wraps github.com/phuslu/log behind the same three
// call-site shapes the teacher's cmd/codeanalyzer-go used ad hoc
// (fmt.Fprintf-based logVerbose/logWarning/logError gated on a verbose/quiet
// bool): Verbose, Warning, Error. Diagnostics are side-banded here so the
// core packages (cdb, typeregistry, npe) never import this package
// themselves — they return errors and let cmd/ decide how to log them.
package logging

import (
	"os"

	"github.com/phuslu/log"
)

// Logger holds the verbosity/quiet state the original flat config struct
// carried, plus the underlying structured logger.
type Logger struct {
	verbose bool
	quiet   bool
	base    log.Logger
}

// New returns a Logger writing to stderr with phuslu/log's console writer,
// honoring the same verbose/quiet semantics as the teacher's CLI flags.
func New(verbose, quiet bool) *Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &Logger{
		verbose: verbose,
		quiet:   quiet,
		base: log.Logger{
			Level:  level,
			Writer: &log.ConsoleWriter{Writer: os.Stderr},
		},
	}
}

// Verbose logs a debug-level message, a no-op unless verbose is set.
func (l *Logger) Verbose(format string, args ...any) {
	if !l.verbose || l.quiet {
		return
	}
	l.base.Debug().Msgf(format, args...)
}

// Warning logs a warn-level message, suppressed only when quiet is set.
func (l *Logger) Warning(format string, args ...any) {
	if l.quiet {
		return
	}
	l.base.Warn().Msgf(format, args...)
}

// Error logs an error-level message unconditionally — quiet silences
// progress output, never failures.
func (l *Logger) Error(format string, args ...any) {
	l.base.Error().Msgf(format, args...)
}
