package franklin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/franklin/pkg/steps"
	"github.com/arthur-debert/franklin/pkg/ui"
)

func TestNewRootCmdRegistersCommands(t *testing.T) {
	rootCmd := NewRootCmd()

	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"update", "update-all", "deps", "doctor", "motd", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("plain failure")))
	assert.Equal(t, 2, ExitCode(&exitError{code: 2}))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", &exitError{code: 2})))
}

func TestSilenced(t *testing.T) {
	assert.True(t, Silenced(&exitError{code: 1}))
	assert.False(t, Silenced(fmt.Errorf("plain failure")))
	assert.False(t, Silenced(nil))
}

func TestFranklinRootEnvOverride(t *testing.T) {
	t.Setenv("FRANKLIN_ROOT", "/srv/franklin")
	assert.Equal(t, "/srv/franklin", franklinRoot())

	t.Setenv("FRANKLIN_ROOT", "")
	root := franklinRoot()
	require.NotEmpty(t, root)
	assert.Equal(t, "franklin", filepath.Base(root))
}

func TestResolveFormat(t *testing.T) {
	format, err := resolveFormat("json")
	require.NoError(t, err)
	assert.Equal(t, ui.FormatJSON, format)

	format, err = resolveFormat("text")
	require.NoError(t, err)
	assert.Equal(t, ui.FormatText, format)

	// Auto resolves against stdout, never staying unresolved.
	format, err = resolveFormat("auto")
	require.NoError(t, err)
	assert.NotEqual(t, ui.FormatAuto, format)

	_, err = resolveFormat("yaml")
	assert.Error(t, err)
}

func TestRunCommandExitCodes(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, 0, runCommand(context.Background(), &out, "sh", "-c", "echo hi"))
	assert.Contains(t, out.String(), "hi")

	assert.Equal(t, 3, runCommand(context.Background(), &out, "sh", "-c", "exit 3"))
}

func TestRunCommandMissingBinary(t *testing.T) {
	var out bytes.Buffer
	code := runCommand(context.Background(), &out, "definitely-not-a-real-binary-name")
	assert.Equal(t, steps.ExitFail, code)
	assert.Contains(t, out.String(), "definitely-not-a-real-binary-name")
}

func TestCoreUpdateActionSkipsNonCheckout(t *testing.T) {
	var out bytes.Buffer
	action := coreUpdateAction(t.TempDir(), false)
	assert.Equal(t, steps.ExitSkip, action(context.Background(), &out))
	assert.Contains(t, out.String(), "not a git checkout")
}

func TestCoreUpdateActionEmptyRootFails(t *testing.T) {
	var out bytes.Buffer
	action := coreUpdateAction("", false)
	assert.Equal(t, steps.ExitFail, action(context.Background(), &out))
}

func TestCoreUpdateActionDryRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mkGitDir(dir))

	var out bytes.Buffer
	action := coreUpdateAction(dir, true)
	assert.Equal(t, steps.ExitOK, action(context.Background(), &out))
	assert.Contains(t, out.String(), "DRY RUN")
}

func mkGitDir(root string) error {
	return os.MkdirAll(filepath.Join(root, ".git"), 0o755)
}
