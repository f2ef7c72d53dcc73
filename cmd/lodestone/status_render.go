package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// statusKind selects the bracketed tag and color of a rendered status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

var statusTags = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// renderStatusLine formats an indented "label: [TAG] message" line with the
// label column padded so consecutive lines align.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := statusTags[kind]
	status := "[" + tag.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("  %-18s %s", label+":", status)
	if colorize && tag.color != "" {
		line = tag.color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	head := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(head))
	if !colorize {
		return []string{head, rule}
	}
	return []string{ansiBlue + head + ansiReset, ansiBlue + rule + ansiReset}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
