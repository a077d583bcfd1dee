package deps

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/reconcile"
)

// expandPath resolves a leading ~/ against the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// buildProbe compiles a manifest entry into a read-only version probe.
func buildProbe(entry Entry) reconcile.Probe {
	typ, _ := reconcile.ParseInstallType(entry.Install)
	source := expandPath(entry.Source)

	return func(ctx context.Context) (string, reconcile.InstallType, string) {
		// Checkout-based entries without a command probe read the checkout.
		if entry.Probe == nil || entry.Probe.Command == "" {
			return probeCheckout(source, typ)
		}

		installed, binPath := probeCommand(ctx, entry.Probe)
		if installed == "" {
			return "", reconcile.InstallAbsent, ""
		}
		if source == "" {
			source = binPath
		}
		return installed, typ, source
	}
}

// probeCommand runs a version command and extracts the configured
// whitespace-separated field from its first output line. A missing binary or
// failing command reads as not installed.
func probeCommand(ctx context.Context, spec *ProbeSpec) (version, binPath string) {
	logger := logging.GetLogger("deps.probe")

	for _, command := range []string{spec.Command, spec.FallbackCommand} {
		if command == "" {
			continue
		}
		argv := strings.Fields(command)

		path, err := exec.LookPath(argv[0])
		if err != nil {
			continue
		}

		out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
		if err != nil {
			logger.Debug().Err(err).Str("command", command).Msg("Version command failed")
			continue
		}

		version := extractField(string(out), spec.Field)
		if version != "" {
			return version, path
		}
	}

	return "", ""
}

// extractField returns the n-th whitespace token of the first line of out.
func extractField(out string, field int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	tokens := strings.Fields(line)
	if field < 0 || field >= len(tokens) {
		return ""
	}
	return tokens[field]
}

// probeCheckout reads the installed version out of a git checkout: the tag
// pointing at HEAD when there is one, then a VERSION file, then the short
// commit hash. A missing or unreadable checkout reads as not installed.
func probeCheckout(source string, typ reconcile.InstallType) (string, reconcile.InstallType, string) {
	if source == "" {
		return "", reconcile.InstallAbsent, ""
	}
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return "", reconcile.InstallAbsent, ""
	}

	if version := checkoutVersion(source); version != "" {
		return version, typ, source
	}

	// The directory exists but carries no version metadata; report presence
	// so the dependency doesn't show as missing.
	return NotVersioned, typ, source
}

// NotVersioned marks a checkout that exists but exposes no version metadata.
const NotVersioned = "unversioned"

func checkoutVersion(source string) string {
	logger := logging.GetLogger("deps.probe")

	repo, openErr := git.PlainOpen(source)
	if openErr == nil {
		if tag := tagAtHead(repo); tag != "" {
			return tag
		}
	} else {
		logger.Debug().Err(openErr).Str("source", source).Msg("Not a readable git checkout")
	}

	if data, err := os.ReadFile(filepath.Join(source, "VERSION")); err == nil {
		if version := strings.TrimSpace(string(data)); version != "" {
			return version
		}
	}

	if openErr == nil {
		if head, err := repo.Head(); err == nil {
			return head.Hash().String()[:7]
		}
	}

	return ""
}

// tagAtHead returns the name of a tag pointing at the current HEAD commit,
// resolving annotated tags to their targets.
func tagAtHead(repo *git.Repository) string {
	head, err := repo.Head()
	if err != nil {
		return ""
	}

	tags, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer tags.Close()

	var match string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, err := repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		}
		if hash == head.Hash() {
			match = ref.Name().Short()
		}
		return nil
	})
	return match
}
