// Package tty detects whether standard streams are attached to a terminal,
// used to decide whether ANSI colors are safe to emit.
package tty

import (
	"os"

	"golang.org/x/term"
)

// IsStderrTerminal reports whether stderr is attached to a terminal.
func IsStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsStdoutTerminal reports whether stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
