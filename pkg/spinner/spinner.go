// Package spinner renders a single-line animated progress indicator next to
// a running operation without blocking it. The operation runs in the
// background with its combined output captured to a scratch buffer; the
// foreground loop redraws one terminal line per tick via carriage return and
// clears it once the operation completes.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/franklin/pkg/capture"
	"github.com/arthur-debert/franklin/pkg/cleanup"
	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/ui"
)

const (
	// DefaultInterval is the liveness polling interval between frame redraws.
	DefaultInterval = 100 * time.Millisecond
	// DefaultTailLines is how much captured output is replayed on failure.
	DefaultTailLines = 40

	eraseLine = "\r\x1b[2K"
)

// Options configures a Renderer.
type Options struct {
	// Printer receives badges and diagnostics. Required.
	Printer *ui.Printer
	// Out is where frames are drawn; defaults to os.Stderr. Animation only
	// happens when Out is an interactive terminal.
	Out io.Writer
	// Interval between liveness checks; defaults to DefaultInterval.
	Interval time.Duration
	// TailLines replayed on failure; defaults to DefaultTailLines.
	TailLines int
	// Quiet suppresses all progress and badge output.
	Quiet bool
	// Verbose replays the full captured output even on success.
	Verbose bool
	// NoColor disables animation (same effect as the NO_COLOR environment).
	NoColor bool
	// Force enables animation regardless of every other condition.
	Force bool
}

// Renderer runs operations with live progress feedback.
type Renderer struct {
	printer   *ui.Printer
	out       io.Writer
	interval  time.Duration
	tailLines int
	quiet     bool
	verbose   bool
	noColor   bool
	force     bool
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tailLines := opts.TailLines
	if tailLines <= 0 {
		tailLines = DefaultTailLines
	}
	printer := opts.Printer
	if printer == nil {
		printer = ui.New(ui.Options{Quiet: opts.Quiet})
	}
	return &Renderer{
		printer:   printer,
		out:       out,
		interval:  interval,
		tailLines: tailLines,
		quiet:     opts.Quiet,
		verbose:   opts.Verbose,
		noColor:   opts.NoColor,
		force:     opts.Force,
	}
}

// ShouldAnimate decides whether the frame-redraw path may be used. The
// explicit force override wins over every disabling condition.
func (r *Renderer) ShouldAnimate() bool {
	if r.force || os.Getenv("FRANKLIN_FORCE_SPINNER") != "" {
		return true
	}
	if r.quiet {
		return false
	}
	if r.noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("FRANKLIN_NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	if term := os.Getenv("TERM"); term == "" || term == "dumb" {
		return false
	}
	file, ok := r.out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Run executes the operation with progress feedback and returns its exit
// code. Output is captured to a scratch buffer in both modes; the buffer is
// always released before Run returns.
func (r *Renderer) Run(ctx context.Context, description string, action func(context.Context, io.Writer) int) int {
	logger := logging.GetLogger("spinner")

	var out io.Writer = io.Discard
	buf, err := capture.NewBuffer()
	if err != nil {
		logger.Warn().Err(err).Msg("Running without output capture")
	} else {
		out = buf
		defer buf.Release()
	}

	var code int
	if r.ShouldAnimate() {
		code = r.runAnimated(ctx, description, action, out)
	} else {
		code = r.runPlain(ctx, description, action, out)
	}

	r.report(description, code, buf)
	return code
}

// runAnimated launches the action in the background and polls its completion
// channel on each tick, redrawing a single line per frame. The select blocks
// on whichever comes first, so the loop can never keep spinning after the
// action has finished, even when it exits between two ticks.
func (r *Renderer) runAnimated(ctx context.Context, description string, action func(context.Context, io.Writer) int, out io.Writer) int {
	done := make(chan int, 1)
	go func() {
		done <- action(ctx, out)
	}()

	term := termenv.NewOutput(r.out)
	term.HideCursor()
	restore := cleanup.Register(func() {
		fmt.Fprint(r.out, eraseLine)
		term.ShowCursor()
	})
	defer restore()

	for i := 0; ; i++ {
		frame := ui.SpinnerFrames[i%len(ui.SpinnerFrames)]
		fmt.Fprintf(r.out, "\r%s %s", frame, description)

		select {
		case code := <-done:
			restore()
			return code
		case <-time.After(r.interval):
		}
	}
}

// runPlain emits a single running line and executes the action synchronously.
func (r *Renderer) runPlain(ctx context.Context, description string, action func(context.Context, io.Writer) int, out io.Writer) int {
	if !r.quiet {
		r.printer.Branch(ui.GlyphWait + " " + description + "...")
	}
	return action(ctx, out)
}

// report emits the post-run badge; identical in animated and plain modes.
func (r *Renderer) report(description string, code int, buf *capture.Buffer) {
	if r.quiet {
		return
	}

	if code == 0 {
		r.printer.Success(description)
		if r.verbose && buf != nil {
			for _, line := range buf.Lines() {
				r.printer.Branch(line)
			}
		}
		return
	}

	r.printer.Error(fmt.Sprintf("%s (exit %d)", description, code))
	if buf != nil {
		for _, line := range buf.Tail(r.tailLines) {
			r.printer.Raw(line)
		}
	}
}
