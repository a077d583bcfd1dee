// Package reconcile determines, for each externally managed dependency,
// whether the installed version is current, upgradable, or stuck, and
// optionally dispatches an upgrade and re-verifies it against the live host.
package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/franklin/pkg/logging"
)

// DefaultSettleDelay is how long the reconciler waits after a successful
// upgrade before re-probing, so package manager and filesystem state can
// settle.
const DefaultSettleDelay = 500 * time.Millisecond

// Normalize strips a single optional leading 'v' or 'V' from a version
// string. This is purely lexical: differently formatted but semantically
// equal versions that don't share this prefix convention stay different.
func Normalize(version string) string {
	if len(version) > 0 && (version[0] == 'v' || version[0] == 'V') {
		return version[1:]
	}
	return version
}

// classify derives the status from installed state alone. It is the single
// place drift is judged; apply logic re-runs it rather than asserting.
func classify(installed, latest string, typ InstallType) Status {
	if installed == NotInstalled {
		return StatusNotInstalled
	}
	if Normalize(latest) != Normalize(installed) {
		if typ == InstallSystemPackage {
			// Distro packaging cadence trails upstream; informational only.
			return StatusLagging
		}
		return StatusUpdateAvailable
	}
	return StatusCurrent
}

// NeedsAttention reports whether a record should make the reconciliation
// pass exit non-zero. A dependency that is simply absent never does.
func NeedsAttention(rec Record, apply bool) bool {
	switch rec.Status {
	case StatusLagging, StatusUpgradeFailed, StatusUpdatePending:
		return true
	case StatusUpdateAvailable:
		return !apply
	default:
		return false
	}
}

// Reconciler runs independent per-dependency checks. Dependencies share no
// state, so the order they are checked in cannot change any outcome.
type Reconciler struct {
	settle time.Duration
	logger zerolog.Logger
}

// Options configures a Reconciler.
type Options struct {
	// SettleDelay overrides the pause between a successful upgrade and the
	// verification re-probe. Zero means DefaultSettleDelay; tests pass a
	// negative value to skip the pause entirely.
	SettleDelay time.Duration
}

// New creates a Reconciler.
func New(opts Options) *Reconciler {
	settle := opts.SettleDelay
	if settle == 0 {
		settle = DefaultSettleDelay
	}
	return &Reconciler{
		settle: settle,
		logger: logging.GetLogger("reconcile"),
	}
}

// observe runs the probe and fetch steps and returns a freshly classified
// record. It is used for both the initial pass and post-upgrade verification
// so the latter always sees live system state.
func (r *Reconciler) observe(ctx context.Context, dep Dependency) Record {
	installed, typ, source := dep.Probe(ctx)
	if installed == "" {
		installed = NotInstalled
	}

	latest := installed
	if dep.Latest != nil {
		latest = dep.Latest(ctx, installed)
	}

	rec := Record{
		Name:      dep.Name,
		Installed: installed,
		Latest:    latest,
		Type:      typ,
		TypeName:  typ.String(),
		Source:    source,
	}
	rec.setStatus(classify(installed, latest, typ))
	return rec
}

// Reconcile checks one dependency and, when apply is set and the dependency
// is upgradable, dispatches the upgrade and re-verifies it against the live
// system.
func (r *Reconciler) Reconcile(ctx context.Context, dep Dependency, apply bool) Record {
	rec := r.observe(ctx, dep)

	r.logger.Debug().
		Str("dependency", rec.Name).
		Str("installed", rec.Installed).
		Str("latest", rec.Latest).
		Str("type", rec.TypeName).
		Str("status", rec.StatusStr).
		Msg("Dependency classified")

	if !apply || rec.Status != StatusUpdateAvailable {
		return rec
	}

	if dep.Upgrade == nil {
		r.logger.Warn().Str("dependency", rec.Name).Msg("No upgrade dispatcher configured")
		return rec
	}

	if err := dep.Upgrade(ctx, rec.Latest, rec.Type, rec.Source); err != nil {
		r.logger.Error().Err(err).Str("dependency", rec.Name).Msg("Upgrade failed")
		rec.setStatus(StatusUpgradeFailed)
		return rec
	}

	// Let package manager and filesystem state settle before re-probing.
	if r.settle > 0 {
		select {
		case <-time.After(r.settle):
		case <-ctx.Done():
		}
	}

	verified := r.observe(ctx, dep)
	verified.Latest = rec.Latest
	if Normalize(verified.Installed) != Normalize(rec.Latest) {
		// Upgrade reported success but the live system disagrees; surface it
		// as a warning rather than swallowing it.
		r.logger.Warn().
			Str("dependency", rec.Name).
			Str("installed", verified.Installed).
			Str("latest", rec.Latest).
			Msg("Upgrade did not verify")
		verified.setStatus(StatusUpdatePending)
		return verified
	}

	verified.setStatus(StatusCurrent)
	return verified
}

// Run reconciles every dependency independently and returns the records plus
// the pass-level exit code: non-zero when any dependency needs attention.
func (r *Reconciler) Run(ctx context.Context, deps []Dependency, apply bool) ([]Record, int) {
	records := make([]Record, 0, len(deps))
	attention := false

	for _, dep := range deps {
		rec := r.Reconcile(ctx, dep, apply)
		records = append(records, rec)
		if NeedsAttention(rec, apply) {
			attention = true
		}
	}

	if attention {
		// 2, not 1: the step classifier treats 1 as a recoverable skip, and
		// unresolved drift is an attention-needed failure, not a skip.
		return records, 2
	}
	return records, 0
}
