package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// statusKind is the outcome column of the doctor table.
type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// renderStatus returns "[LABEL]", wrapped in ANSI color when colorize is set.
func renderStatus(kind statusKind, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		return "[UNKNOWN]"
	}
	if !colorize {
		return "[" + style.label + "]"
	}
	return style.color + "[" + style.label + "]" + ansiReset
}

// shouldColorize is true for terminals unless NO_COLOR is set.
func shouldColorize(w io.Writer) bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
