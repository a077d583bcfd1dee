package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/franklin/pkg/reconcile"
)

// staticDep builds a dependency whose probe always reports the given state.
func staticDep(name, installed, latest string, typ reconcile.InstallType) reconcile.Dependency {
	return reconcile.Dependency{
		Name: name,
		Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
			return installed, typ, ""
		},
		Latest: func(ctx context.Context, fallback string) string {
			return latest
		},
	}
}

func newTestReconciler() *reconcile.Reconciler {
	return reconcile.New(reconcile.Options{SettleDelay: -1})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"lowercase_prefix", "v1.2.3", "1.2.3"},
		{"uppercase_prefix", "V0.39.5", "0.39.5"},
		{"no_prefix", "1.2.3", "1.2.3"},
		{"only_first_prefix_stripped", "vv1.0", "v1.0"},
		{"embedded_v_kept", "1.2v3", "1.2v3"},
		{"empty", "", ""},
		{"bare_v", "v", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.Normalize(tt.version))
		})
	}
}

func TestReconcileClassification(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		latest    string
		typ       reconcile.InstallType
		want      reconcile.Status
	}{
		{"current_exact", "2.2.3", "2.2.3", reconcile.InstallFile, reconcile.StatusCurrent},
		{"current_across_prefix", "v1.2.3", "1.2.3", reconcile.InstallFile, reconcile.StatusCurrent},
		{"current_uppercase_prefix", "V1.2.3", "v1.2.3", reconcile.InstallGit, reconcile.StatusCurrent},
		{"drift_upgradable", "1.2.3", "1.3.0", reconcile.InstallFile, reconcile.StatusUpdateAvailable},
		{"drift_git", "0.39.5", "0.40.3", reconcile.InstallGit, reconcile.StatusUpdateAvailable},
		{"drift_system_is_lagging", "1.0", "1.1", reconcile.InstallSystemPackage, reconcile.StatusLagging},
		{"system_current", "5.9", "5.9", reconcile.InstallSystemPackage, reconcile.StatusCurrent},
		{"missing", reconcile.NotInstalled, "1.0.0", reconcile.InstallAbsent, reconcile.StatusNotInstalled},
	}

	r := newTestReconciler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := r.Reconcile(context.Background(),
				staticDep(tt.name, tt.installed, tt.latest, tt.typ), false)
			assert.Equal(t, tt.want, rec.Status)
			assert.Equal(t, tt.want.String(), rec.StatusStr)
			assert.Equal(t, tt.typ.String(), rec.TypeName)
		})
	}
}

func TestReconcileEmptyProbeMeansNotInstalled(t *testing.T) {
	dep := reconcile.Dependency{
		Name: "ghost",
		Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
			return "", reconcile.InstallAbsent, ""
		},
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, false)
	assert.Equal(t, reconcile.NotInstalled, rec.Installed)
	assert.Equal(t, reconcile.StatusNotInstalled, rec.Status)
}

func TestReconcileNilFetcherAssumesCurrent(t *testing.T) {
	dep := reconcile.Dependency{
		Name: "presence-only",
		Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
			return "5.9", reconcile.InstallSystemPackage, ""
		},
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, false)
	assert.Equal(t, "5.9", rec.Latest)
	assert.Equal(t, reconcile.StatusCurrent, rec.Status)
}

func TestReconcileApplyUpgradesAndVerifies(t *testing.T) {
	installed := "1.0.0"
	upgraded := false

	dep := reconcile.Dependency{
		Name: "tool",
		Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
			return installed, reconcile.InstallFile, "/usr/local/bin/tool"
		},
		Latest: func(ctx context.Context, fallback string) string {
			return "1.1.0"
		},
		Upgrade: func(ctx context.Context, latest string, typ reconcile.InstallType, source string) error {
			upgraded = true
			assert.Equal(t, "1.1.0", latest)
			assert.Equal(t, reconcile.InstallFile, typ)
			assert.Equal(t, "/usr/local/bin/tool", source)
			installed = "1.1.0"
			return nil
		},
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, true)
	require.True(t, upgraded)
	assert.Equal(t, reconcile.StatusCurrent, rec.Status)
	assert.Equal(t, "1.1.0", rec.Installed)
}

func TestReconcileApplyUnverifiedIsPending(t *testing.T) {
	dep := reconcile.Dependency{
		Name: "stuck",
		Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
			// Re-probe still sees the old version after the upgrade.
			return "1.0.0", reconcile.InstallFile, ""
		},
		Latest: func(ctx context.Context, fallback string) string {
			return "1.1.0"
		},
		Upgrade: func(ctx context.Context, latest string, typ reconcile.InstallType, source string) error {
			return nil
		},
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, true)
	assert.Equal(t, reconcile.StatusUpdatePending, rec.Status)
	assert.Equal(t, "1.0.0", rec.Installed)
	// The record keeps the target version so the report can show the gap.
	assert.Equal(t, "1.1.0", rec.Latest)
}

func TestReconcileApplyUpgradeError(t *testing.T) {
	dep := staticDep("broken", "1.0.0", "2.0.0", reconcile.InstallBrew)
	dep.Upgrade = func(ctx context.Context, latest string, typ reconcile.InstallType, source string) error {
		return errors.New("brew exploded")
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, true)
	assert.Equal(t, reconcile.StatusUpgradeFailed, rec.Status)
	assert.Equal(t, "1.0.0", rec.Installed)
}

func TestReconcileApplyNeverUpgradesSystemPackages(t *testing.T) {
	dep := staticDep("zsh", "5.8", "5.9", reconcile.InstallSystemPackage)
	dep.Upgrade = func(ctx context.Context, latest string, typ reconcile.InstallType, source string) error {
		t.Fatal("system package must not be upgraded")
		return nil
	}

	rec := newTestReconciler().Reconcile(context.Background(), dep, true)
	assert.Equal(t, reconcile.StatusLagging, rec.Status)
}

func TestReconcileApplyWithoutUpgrader(t *testing.T) {
	dep := staticDep("no-dispatcher", "1.0.0", "1.1.0", reconcile.InstallFile)

	rec := newTestReconciler().Reconcile(context.Background(), dep, true)
	assert.Equal(t, reconcile.StatusUpdateAvailable, rec.Status)
}

func TestNeedsAttention(t *testing.T) {
	tests := []struct {
		name   string
		status reconcile.Status
		apply  bool
		want   bool
	}{
		{"current_clean", reconcile.StatusCurrent, false, false},
		{"not_installed_clean", reconcile.StatusNotInstalled, false, false},
		{"available_report_only", reconcile.StatusUpdateAvailable, false, true},
		// With apply set, an upgradable record is about to be handled and is
		// not an attention signal on its own.
		{"available_after_apply", reconcile.StatusUpdateAvailable, true, false},
		{"lagging_always", reconcile.StatusLagging, true, true},
		{"failed_always", reconcile.StatusUpgradeFailed, true, true},
		{"pending_always", reconcile.StatusUpdatePending, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := reconcile.Record{Status: tt.status}
			assert.Equal(t, tt.want, reconcile.NeedsAttention(rec, tt.apply))
		})
	}
}

func TestRunExitCodes(t *testing.T) {
	clean := []reconcile.Dependency{
		staticDep("a", "1.0", "1.0", reconcile.InstallFile),
		staticDep("b", reconcile.NotInstalled, "2.0", reconcile.InstallAbsent),
	}
	records, code := newTestReconciler().Run(context.Background(), clean, false)
	require.Len(t, records, 2)
	assert.Equal(t, 0, code)

	drifted := append(clean, staticDep("c", "1.0", "1.1", reconcile.InstallFile))
	records, code = newTestReconciler().Run(context.Background(), drifted, false)
	require.Len(t, records, 3)
	assert.Equal(t, 2, code)
}

func TestRunChecksEveryDependency(t *testing.T) {
	var order []string
	probe := func(name, installed string) reconcile.Dependency {
		return reconcile.Dependency{
			Name: name,
			Probe: func(ctx context.Context) (string, reconcile.InstallType, string) {
				order = append(order, name)
				return installed, reconcile.InstallFile, ""
			},
			Latest: func(ctx context.Context, fallback string) string { return "9.9" },
		}
	}

	deps := []reconcile.Dependency{
		probe("first", "1.0"),
		probe("second", "9.9"),
		probe("third", "2.0"),
	}
	records, code := newTestReconciler().Run(context.Background(), deps, false)

	// A drifted dependency never stops the ones after it from being checked.
	assert.Equal(t, []string{"first", "second", "third"}, order)
	require.Len(t, records, 3)
	assert.Equal(t, 2, code)
}

func TestParseInstallType(t *testing.T) {
	for _, name := range []string{"git", "file", "system", "brew", "directory", "node"} {
		typ, ok := reconcile.ParseInstallType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}

	_, ok := reconcile.ParseInstallType("flatpak")
	assert.False(t, ok)
}
