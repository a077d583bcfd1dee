package deps

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/arthur-debert/franklin/pkg/errors"
	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/reconcile"
)

// buildUpgrader compiles a manifest entry's upgrade command into an upgrade
// dispatcher. The dispatcher performs the host mutation and reports success
// or failure only; verification is left to the reconciler. Combined output
// streams to out so it lands in the operation's scratch capture.
func buildUpgrader(entry Entry, out io.Writer) reconcile.Upgrader {
	if entry.Upgrade == nil || entry.Upgrade.Command == "" {
		return nil
	}
	command := entry.Upgrade.Command
	name := entry.Name

	return func(ctx context.Context, latest string, typ reconcile.InstallType, source string) error {
		expanded := strings.ReplaceAll(command, "{{source}}", source)
		expanded = strings.ReplaceAll(expanded, "{{latest}}", latest)

		logging.LogCommand("sh", []string{"-c", expanded})

		cmd := exec.CommandContext(ctx, "sh", "-c", expanded)
		if out != nil {
			cmd.Stdout = out
			cmd.Stderr = out
		}
		if err := cmd.Run(); err != nil {
			return errors.Wrapf(err, errors.ErrUpgrade, "upgrade command failed for %s", name).
				WithDetail("command", expanded)
		}
		return nil
	}
}

// Build compiles the manifest into reconciliation dependencies. Upgrade
// output is routed to out, which is normally the in-flight operation's
// capture buffer.
func Build(m *Manifest, out io.Writer) []reconcile.Dependency {
	deps := make([]reconcile.Dependency, 0, len(m.Dependencies))
	for _, entry := range m.Dependencies {
		deps = append(deps, reconcile.Dependency{
			Name:    entry.Name,
			Probe:   buildProbe(entry),
			Latest:  buildFetcher(entry),
			Upgrade: buildUpgrader(entry, out),
		})
	}
	return deps
}
