// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders status output for one writer. Colors are used only
// when the writer is a color-capable terminal.
type Styles struct {
	writer  io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
}

// NewStyles returns styles bound to w's terminal capabilities.
func NewStyles(w io.Writer) *Styles {
	renderer := lipgloss.NewRenderer(w)
	return &Styles{
		writer:  w,
		success: renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}),
		failure: renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}),
		label:   renderer.NewStyle().Bold(true),
		muted:   renderer.NewStyle().Faint(true),
	}
}

// Success writes a "✓ text" status line.
func (s *Styles) Success(format string, args ...any) {
	fmt.Fprintln(s.writer, s.success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Failure writes a "✗ text" status line.
func (s *Styles) Failure(format string, args ...any) {
	fmt.Fprintln(s.writer, s.failure.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Field writes an indented "label: value" line.
func (s *Styles) Field(label, value string) {
	fmt.Fprintf(s.writer, "  %s %s\n", s.label.Render(label+":"), value)
}

// Note writes a de-emphasized line.
func (s *Styles) Note(format string, args ...any) {
	fmt.Fprintln(s.writer, s.muted.Render(fmt.Sprintf(format, args...)))
}
