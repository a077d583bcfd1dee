// Package platform detects the host OS family and provides the package
// manager command sequences for system-level updates.
package platform

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/franklin/pkg/errors"
	"github.com/arthur-debert/franklin/pkg/logging"
)

// Family is the host OS family, which selects the system package manager.
type Family string

const (
	FamilyMacOS   Family = "macos"
	FamilyDebian  Family = "debian"
	FamilyRHEL    Family = "rhel"
	FamilyUnknown Family = "unknown"
)

// etcDir is a variable so tests can point detection at a scratch tree.
var etcDir = "/etc"

// DetectFamily determines the OS family for package manager selection.
func DetectFamily() Family {
	if runtime.GOOS == "darwin" {
		return FamilyMacOS
	}
	if _, err := os.Stat(filepath.Join(etcDir, "debian_version")); err == nil {
		return FamilyDebian
	}
	if _, err := os.Stat(filepath.Join(etcDir, "redhat-release")); err == nil {
		return FamilyRHEL
	}
	return FamilyUnknown
}

// UpdateCommands returns the command sequence that refreshes and upgrades
// system packages for the family. Dry-run variants preview without mutating.
func UpdateCommands(family Family, dryRun bool) ([][]string, error) {
	switch family {
	case FamilyMacOS:
		upgrade := []string{"brew", "upgrade"}
		if dryRun {
			upgrade = append(upgrade, "--dry-run")
		}
		return [][]string{{"brew", "update"}, upgrade}, nil
	case FamilyDebian:
		if dryRun {
			return [][]string{
				{"sudo", "apt-get", "update"},
				{"apt-get", "upgrade", "-s"},
			}, nil
		}
		return [][]string{
			{"sudo", "apt-get", "update"},
			{"sudo", "apt-get", "upgrade", "-y"},
		}, nil
	case FamilyRHEL:
		if dryRun {
			return [][]string{
				{"sudo", "dnf", "makecache"},
				{"dnf", "upgrade", "--assumeno"},
			}, nil
		}
		return [][]string{
			{"sudo", "dnf", "makecache"},
			{"sudo", "dnf", "upgrade", "-y"},
		}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unsupported OS family %q for system package updates", family)
	}
}

// RevokeSudo drops any cached sudo credentials. Registered as a cleanup so
// an interrupted run never leaves elevated privileges behind.
func RevokeSudo() {
	if _, err := exec.LookPath("sudo"); err != nil {
		return
	}
	if err := exec.CommandContext(context.Background(), "sudo", "-k").Run(); err != nil {
		logger := logging.GetLogger("platform")
		logger.Debug().Err(err).Msg("Failed to revoke sudo credentials")
	}
}
