// Package deps defines the tracked external dependencies: a YAML manifest
// describes how each one is probed, where its authoritative latest version
// lives, and which command upgrades it. The manifest compiles into
// reconcile.Dependency values for the reconciliation engine.
package deps

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/franklin/pkg/errors"
	"github.com/arthur-debert/franklin/pkg/reconcile"
)

//go:embed deps.yaml
var defaultManifest []byte

// Manifest is the set of tracked dependencies.
type Manifest struct {
	Dependencies []Entry `yaml:"dependencies"`
}

// Entry describes one tracked dependency.
type Entry struct {
	Name    string       `yaml:"name"`
	Install string       `yaml:"install"`
	Source  string       `yaml:"source,omitempty"`
	Probe   *ProbeSpec   `yaml:"probe,omitempty"`
	Latest  *LatestSpec  `yaml:"latest,omitempty"`
	Upgrade *UpgradeSpec `yaml:"upgrade,omitempty"`
}

// ProbeSpec describes a read-only version probe. Command probes run the
// given command and take the Field-th whitespace token of the first output
// line; FallbackCommand covers distros that rename a binary (bat/batcat).
// Entries without a command probe are probed through their git checkout.
type ProbeSpec struct {
	Command         string `yaml:"command,omitempty"`
	FallbackCommand string `yaml:"fallback_command,omitempty"`
	Field           int    `yaml:"field"`
}

// LatestSpec describes where the authoritative latest version comes from.
// Exactly one of the fields is set.
type LatestSpec struct {
	// GitHub is an owner/repo whose latest release tag is used.
	GitHub string `yaml:"github,omitempty"`
	// GitRemote is a git URL whose newest tag is used.
	GitRemote string `yaml:"git_remote,omitempty"`
	// NodeDist uses the nodejs.org dist index.
	NodeDist bool `yaml:"node_dist,omitempty"`
}

// UpgradeSpec describes the host mutation that upgrades the dependency.
// The command runs through the shell; {{source}} and {{latest}} expand to
// the probed source path and the fetched latest version.
type UpgradeSpec struct {
	Command string `yaml:"command"`
}

// LoadManifest parses a manifest from path, or the embedded default when
// path is empty.
func LoadManifest(path string) (*Manifest, error) {
	data := defaultManifest
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to read deps manifest").
				WithDetail("path", path)
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to parse deps manifest")
	}

	for _, entry := range m.Dependencies {
		if entry.Name == "" {
			return nil, errors.New(errors.ErrManifestValid, "dependency entry without a name")
		}
		if _, ok := reconcile.ParseInstallType(entry.Install); !ok {
			return nil, errors.Newf(errors.ErrManifestValid, "dependency %q has unknown install type %q",
				entry.Name, entry.Install)
		}
	}

	return &m, nil
}
