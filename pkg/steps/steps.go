// Package steps runs named maintenance operations with isolated failure
// semantics: each operation returns an integer code that is classified into
// a three-way outcome, and a failing operation never prevents the ones after
// it from running.
package steps

import (
	"context"
	"io"

	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/spinner"
)

// Action is one unit of orchestrated work. It writes its combined output to
// out and returns a process-style exit code.
type Action func(ctx context.Context, out io.Writer) int

// Exit codes with a defined outcome classification.
const (
	ExitOK   = 0 // operation succeeded
	ExitSkip = 1 // optional prerequisite absent; counted as passed
	ExitFail = 2 // conventional code for internal failures
)

// Outcome is the three-way classification of an operation's exit code.
type Outcome int

const (
	// OutcomeSuccess means the operation completed normally.
	OutcomeSuccess Outcome = iota
	// OutcomeSkipped means an optional prerequisite was absent; the
	// operation still counts as passed.
	OutcomeSkipped
	// OutcomeFatal means the operation returned an unexpected code; it
	// counts as failed but does not halt the run.
	OutcomeFatal
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps an operation's exit code to its outcome: 0 is success, 1 is
// a recoverable skip, anything else is fatal.
func Classify(code int) Outcome {
	switch code {
	case ExitOK:
		return OutcomeSuccess
	case ExitSkip:
		return OutcomeSkipped
	default:
		return OutcomeFatal
	}
}

// Operation is a named Action. Operations are constructed at orchestration
// start and must not assume any prior operation succeeded.
type Operation struct {
	Name   string
	Action Action
}

// Executor runs one operation to completion with progress feedback and
// classifies the result.
type Executor struct {
	renderer *spinner.Renderer
}

// NewExecutor creates an Executor that drives the given renderer.
func NewExecutor(renderer *spinner.Renderer) *Executor {
	return &Executor{renderer: renderer}
}

// Execute runs the operation and classifies its exit code. A panic inside
// the action is contained here and classified as fatal rather than
// propagating into orchestration state.
func (e *Executor) Execute(ctx context.Context, op Operation) Outcome {
	logger := logging.GetLogger("steps")
	logger.Debug().Str("operation", op.Name).Msg("Operation started")

	code := e.renderer.Run(ctx, op.Name, func(ctx context.Context, out io.Writer) (code int) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("operation", op.Name).Interface("panic", r).
					Msg("Operation panicked")
				code = ExitFail
			}
		}()
		return op.Action(ctx, out)
	})

	outcome := Classify(code)
	logger.Debug().Str("operation", op.Name).Int("code", code).
		Stringer("outcome", outcome).Msg("Operation finished")
	return outcome
}
