package steps

import (
	"context"
	"fmt"

	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/ui"
)

// Tally accumulates pass/fail counts for one orchestration run. It is owned
// by the Orchestrator instance and read once at the end to compute the
// process exit code.
type Tally struct {
	Passed int
	Failed int
}

// ExitCode is 0 when nothing failed, 1 otherwise.
func (t Tally) ExitCode() int {
	if t.Failed == 0 {
		return 0
	}
	return 1
}

// Orchestrator sequences a fixed list of operations. It is a best-effort
// full pass: a fatal operation is counted and the run continues; there is no
// retry and no reordering.
type Orchestrator struct {
	executor *Executor
	printer  *ui.Printer
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(executor *Executor, printer *ui.Printer) *Orchestrator {
	return &Orchestrator{executor: executor, printer: printer}
}

// Run executes every operation in registration order, prints the tally
// summary exactly once, and returns the overall exit code.
func (o *Orchestrator) Run(ctx context.Context, ops []Operation) int {
	logger := logging.GetLogger("orchestrator")

	var tally Tally
	for _, op := range ops {
		o.printer.Header(op.Name)

		switch o.executor.Execute(ctx, op) {
		case OutcomeSuccess, OutcomeSkipped:
			tally.Passed++
		case OutcomeFatal:
			tally.Failed++
		}

		o.printer.SectionEnd()
	}

	logger.Info().Int("passed", tally.Passed).Int("failed", tally.Failed).
		Msg("Orchestration finished")

	o.printSummary(tally)
	return tally.ExitCode()
}

func (o *Orchestrator) printSummary(tally Tally) {
	summary := fmt.Sprintf("%d passed, %d failed", tally.Passed, tally.Failed)
	if tally.Failed == 0 {
		o.printer.FinalSuccess(summary)
		return
	}
	o.printer.Error(summary)
}
