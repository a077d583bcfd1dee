// Package ui implements the Campfire output conventions: glyph-prefixed
// hierarchy lines, aligned columns, and TTY-aware styling. All chrome goes
// to stderr so stdout stays free for machine-readable data.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Campfire chrome styles, matching the palette used across commands.
var (
	SuccessStyle = pterm.NewStyle(pterm.FgGreen)
	ErrorStyle   = pterm.NewStyle(pterm.FgRed)
	WarningStyle = pterm.NewStyle(pterm.FgYellow)
	InfoStyle    = pterm.NewStyle(pterm.FgCyan)
	MutedStyle   = pterm.NewStyle(pterm.FgGray)
)

// Printer emits Campfire-formatted lines to a single writer.
type Printer struct {
	out   io.Writer
	color bool
	quiet bool
}

// Options configures a Printer.
type Options struct {
	// Out defaults to os.Stderr.
	Out io.Writer
	// Color enables styled output. Callers normally pass the result of
	// DetectFormat(os.Stderr) == FormatTerminal.
	Color bool
	// Quiet suppresses all chrome output.
	Quiet bool
}

// New creates a Printer.
func New(opts Options) *Printer {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out, color: opts.Color, quiet: opts.Quiet}
}

// Quiet reports whether chrome output is suppressed.
func (p *Printer) Quiet() bool { return p.quiet }

// Out returns the destination writer.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) println(styled *pterm.Style, text string) {
	if p.quiet {
		return
	}
	if p.color && styled != nil {
		fmt.Fprintln(p.out, styled.Sprint(text))
		return
	}
	fmt.Fprintln(p.out, text)
}

// Header prints an action header (level 0): ⏺ text
func (p *Printer) Header(text string) {
	p.println(nil, GlyphAction+" "+text)
}

// Branch prints a branch/output line (level 1): ⎿  text
func (p *Printer) Branch(text string) {
	p.println(nil, GlyphBranch+"  "+text)
}

// Logic prints a logic/thought indicator: ∴ text
func (p *Printer) Logic(text string) {
	p.println(nil, GlyphLogic+" "+text)
}

// Success prints a success badge: ⎿  ✔ text
func (p *Printer) Success(text string) {
	p.println(SuccessStyle, GlyphBranch+"  "+GlyphSuccess+" "+text)
}

// Error prints a failure badge: ⎿  ✗ text
func (p *Printer) Error(text string) {
	p.println(ErrorStyle, GlyphBranch+"  "+GlyphError+" "+text)
}

// Warning prints a warning badge: ⎿  ⚠ text
func (p *Printer) Warning(text string) {
	p.println(WarningStyle, GlyphBranch+"  "+GlyphWarning+" "+text)
}

// Info prints an informational branch line.
func (p *Printer) Info(text string) {
	p.println(InfoStyle, GlyphBranch+"  "+text)
}

// FinalSuccess prints a standalone closing success line: ✔ text
func (p *Printer) FinalSuccess(text string) {
	p.println(SuccessStyle, GlyphSuccess+" "+text)
}

// Raw prints a line without any glyph or styling (already-formatted output).
func (p *Printer) Raw(text string) {
	p.println(nil, text)
}

// SectionEnd prints a blank line for breathing room between sections.
func (p *Printer) SectionEnd() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out)
}

// Columnar prints key-value pairs in aligned columns:
//
//	⎿  Key1      :: Value1
//	   LongerKey :: Value2
func (p *Printer) Columnar(pairs [][2]string) {
	if p.quiet || len(pairs) == 0 {
		return
	}

	maxKey := 0
	for _, kv := range pairs {
		if len(kv[0]) > maxKey {
			maxKey = len(kv[0])
		}
	}

	for i, kv := range pairs {
		prefix := "   "
		if i == 0 {
			prefix = GlyphBranch + "  "
		}
		fmt.Fprintf(p.out, "%s%-*s :: %s\n", prefix, maxKey, kv[0], kv[1])
	}
}

// Truncated prints lines, cutting off after maxLines with a hidden-count note.
func (p *Printer) Truncated(lines []string, maxLines int) {
	if p.quiet {
		return
	}
	if len(lines) <= maxLines {
		for _, line := range lines {
			p.Branch(line)
		}
		return
	}
	for _, line := range lines[:maxLines] {
		p.Branch(line)
	}
	p.Branch(fmt.Sprintf("... +%d lines hidden", len(lines)-maxLines))
}
