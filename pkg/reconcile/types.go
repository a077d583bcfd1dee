package reconcile

import "context"

// NotInstalled is the sentinel installed-version value for a dependency the
// probe could not find on the host.
const NotInstalled = "not_installed"

// InstallType is the mechanism by which a dependency is present on the host.
// It determines upgrade eligibility: system-package-managed dependencies are
// never upgraded by this engine.
type InstallType int

const (
	// InstallAbsent means the dependency is not present at all.
	InstallAbsent InstallType = iota
	// InstallGit is a version-controlled checkout.
	InstallGit
	// InstallFile is a single placed binary or file.
	InstallFile
	// InstallSystemPackage is owned by the host package manager (apt, dnf).
	InstallSystemPackage
	// InstallBrew is a Homebrew formula.
	InstallBrew
	// InstallDirectory is a plain directory checkout without richer metadata.
	InstallDirectory
	// InstallNodeRegistry is managed through the Node toolchain.
	InstallNodeRegistry
)

var installTypeNames = map[InstallType]string{
	InstallAbsent:        "absent",
	InstallGit:           "git",
	InstallFile:          "file",
	InstallSystemPackage: "system",
	InstallBrew:          "brew",
	InstallDirectory:     "directory",
	InstallNodeRegistry:  "node",
}

// String returns the wire name of the install type.
func (t InstallType) String() string {
	if name, ok := installTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseInstallType maps a manifest string to an InstallType.
func ParseInstallType(s string) (InstallType, bool) {
	for t, name := range installTypeNames {
		if name == s {
			return t, true
		}
	}
	return InstallAbsent, false
}

// Status classifies one dependency's version drift at a point in time. It is
// a pure function of (installed, latest, install type) and is recomputed
// after any apply attempt, never asserted directly by upgrade logic.
type Status int

const (
	// StatusCurrent means installed matches latest after normalization.
	StatusCurrent Status = iota
	// StatusUpdateAvailable means drift on an upgradable install type.
	StatusUpdateAvailable
	// StatusLagging means drift on a system-package install; informational
	// only, the host package manager owns that lifecycle.
	StatusLagging
	// StatusNotInstalled means the probe found nothing on the host.
	StatusNotInstalled
	// StatusUpgradeFailed means the upgrade dispatcher reported an error.
	StatusUpgradeFailed
	// StatusUpdatePending means the upgrade reported success but the
	// re-probe did not confirm the new version.
	StatusUpdatePending
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusUpdateAvailable:
		return "update_available"
	case StatusLagging:
		return "lagging"
	case StatusNotInstalled:
		return "not_installed"
	case StatusUpgradeFailed:
		return "upgrade_failed"
	case StatusUpdatePending:
		return "update_pending"
	default:
		return "unknown"
	}
}

// Probe discovers a dependency's installed state. Probes are pure reads and
// must not mutate host state. An empty installed version means not installed.
type Probe func(ctx context.Context) (installed string, typ InstallType, source string)

// LatestFetcher looks up the authoritative latest version. It must degrade
// gracefully: any failure returns the fallback instead of an error, so one
// unreachable source never blocks the whole pass.
type LatestFetcher func(ctx context.Context, fallback string) string

// Upgrader performs the actual host mutation for one dependency. It reports
// success or failure only; verification is the reconciler's job.
type Upgrader func(ctx context.Context, latest string, typ InstallType, source string) error

// Dependency is one externally tracked tool with its collaborators.
type Dependency struct {
	Name    string
	Probe   Probe
	Latest  LatestFetcher
	Upgrade Upgrader
}

// Record is the result of reconciling one dependency. Records are created
// fresh on every pass; there is no cross-run memory.
type Record struct {
	Name      string      `json:"name"`
	Installed string      `json:"installed"`
	Latest    string      `json:"latest"`
	Type      InstallType `json:"-"`
	TypeName  string      `json:"install_type"`
	Status    Status      `json:"-"`
	StatusStr string      `json:"status"`
	Source    string      `json:"source,omitempty"`
}

// setStatus keeps the wire fields in sync with the enum values.
func (r *Record) setStatus(s Status) {
	r.Status = s
	r.StatusStr = s.String()
}
