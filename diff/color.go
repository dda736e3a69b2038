// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// A ColorMode selects when diffs are colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Enabled reports whether output written to w should be colorized.
// In auto mode that is when w is a terminal and NO_COLOR is unset.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// A Printer renders diffs, with or without color.
type Printer struct {
	color   bool
	header  lipgloss.Style
	hunk    lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
}

// NewPrinter returns a printer that colorizes when color is true.
func NewPrinter(color bool) *Printer {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Printer{
		color:   color,
		header:  base.Bold(true),
		hunk:    base.Foreground(lipgloss.Color("39")),
		added:   base.Foreground(lipgloss.Color("42")),
		removed: base.Foreground(lipgloss.Color("196")),
	}
}

// Colorize returns d with each line styled by its kind.
func (p *Printer) Colorize(d string) string {
	if !p.color {
		return d
	}
	lines := strings.SplitAfter(d, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		var style lipgloss.Style
		switch {
		case strings.HasPrefix(body, "diff "), strings.HasPrefix(body, "--- "), strings.HasPrefix(body, "+++ "):
			style = p.header
		case strings.HasPrefix(body, "@@"):
			style = p.hunk
		case strings.HasPrefix(body, "+"):
			style = p.added
		case strings.HasPrefix(body, "-"):
			style = p.removed
		default:
			b.WriteString(line)
			continue
		}
		b.WriteString(style.Render(body))
		if len(body) < len(line) {
			b.WriteString("\n")
		}
	}
	return b.String()
}
