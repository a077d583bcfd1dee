package franklin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/pkg/config"
	"github.com/arthur-debert/franklin/pkg/deps"
	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/platform"
	"github.com/arthur-debert/franklin/pkg/reconcile"
	"github.com/arthur-debert/franklin/pkg/steps"
)

// runCommand executes argv with combined output routed to out and returns a
// process-style exit code.
func runCommand(ctx context.Context, out io.Writer, argv ...string) int {
	logging.LogCommand(argv[0], argv[1:])

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(out, "%s: %v\n", argv[0], err)
		return steps.ExitFail
	}
	return steps.ExitOK
}

// coreUpdateAction pulls the franklin core checkout. A root that is not a
// git checkout is an absent optional prerequisite, not a failure.
func coreUpdateAction(root string, dryRun bool) steps.Action {
	return func(ctx context.Context, out io.Writer) int {
		if root == "" {
			fmt.Fprintln(out, "franklin root could not be determined")
			return steps.ExitFail
		}
		if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
			fmt.Fprintf(out, "%s is not a git checkout, skipping core update\n", root)
			return steps.ExitSkip
		}
		if dryRun {
			fmt.Fprintf(out, "DRY RUN: git -C %s pull --ff-only\n", root)
			return steps.ExitOK
		}
		return runCommand(ctx, out, "git", "-C", root, "pull", "--ff-only")
	}
}

// pluginUpdateAction refreshes sheldon-managed plugins. Sheldon is required,
// so a missing binary is a failure rather than a skip.
func pluginUpdateAction(dryRun bool) steps.Action {
	return func(ctx context.Context, out io.Writer) int {
		if dryRun {
			fmt.Fprintln(out, "DRY RUN: sheldon lock --update")
			return steps.ExitOK
		}
		return runCommand(ctx, out, "sheldon", "lock", "--update")
	}
}

// validateToolsAction checks that required core tools are present.
func validateToolsAction() steps.Action {
	return func(ctx context.Context, out io.Writer) int {
		// batcat covers Debian's renamed package.
		for _, name := range []string{"bat", "batcat"} {
			if path, err := exec.LookPath(name); err == nil {
				fmt.Fprintf(out, "bat present at %s\n", path)
				return steps.ExitOK
			}
		}
		fmt.Fprintln(out, "bat/batcat not found (bat is required)")
		return steps.ExitFail
	}
}

// reconcileAction runs one reconciliation pass over the tracked
// dependencies, reporting each record into the captured output.
func reconcileAction(cfg *config.Config, apply bool) steps.Action {
	return func(ctx context.Context, out io.Writer) int {
		manifest, err := deps.LoadManifest(cfg.Deps.Manifest)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			return steps.ExitFail
		}

		reconciler := reconcile.New(reconcile.Options{
			SettleDelay: time.Duration(cfg.Update.SettleDelayMS) * time.Millisecond,
		})
		records, code := reconciler.Run(ctx, deps.Build(manifest, out), apply)

		for _, rec := range records {
			fmt.Fprintf(out, "%-10s %-10s installed=%s latest=%s (%s)\n",
				rec.Name, rec.StatusStr, rec.Installed, rec.Latest, rec.TypeName)
		}
		return code
	}
}

// systemUpdateAction updates system packages for the detected OS family.
func systemUpdateAction(dryRun bool) steps.Action {
	return func(ctx context.Context, out io.Writer) int {
		family := platform.DetectFamily()
		commands, err := platform.UpdateCommands(family, dryRun)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			return steps.ExitFail
		}

		fmt.Fprintf(out, "using %s package manager commands\n", family)
		for _, argv := range commands {
			if code := runCommand(ctx, out, argv...); code != steps.ExitOK {
				return code
			}
		}
		return steps.ExitOK
	}
}

func newUpdateCmd(flags *rootFlags) *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: MsgUpdateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(flags)
			root := franklinRoot()

			printer.Header("Updating franklin core")
			printer.Branch(fmt.Sprintf("franklin root: %s", root))

			if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
				printer.Error("franklin root is not a git repository")
				return &exitError{code: 1}
			}

			if dryRun {
				printer.Branch(fmt.Sprintf("DRY RUN: git -C %s pull --ff-only", root))
				printer.Success("Dry run complete (no changes made)")
				printer.SectionEnd()
				return nil
			}

			if !yes && !confirm("This will pull the latest changes from the repository. Continue?") {
				printer.Info("Update cancelled")
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			renderer := newSpinner(cfg, flags, printer, false)
			code := renderer.Run(cmd.Context(), "Pulling latest changes",
				coreUpdateAction(root, false))
			printer.SectionEnd()
			if steps.Classify(code) == steps.OutcomeFatal {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would run without making changes")
	return cmd
}

func newUpdateAllCmd(flags *rootFlags) *cobra.Command {
	var (
		yes     bool
		dryRun  bool
		system  bool
		apply   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "update-all",
		Short: MsgUpdateAllShort,
		Long:  MsgUpdateAllLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			printer := newPrinter(flags)
			renderer := newSpinner(cfg, flags, printer, verbose)
			executor := steps.NewExecutor(renderer)
			orchestrator := steps.NewOrchestrator(executor, printer)

			operations := []steps.Operation{
				{Name: "Update franklin core", Action: coreUpdateAction(franklinRoot(), dryRun)},
				{Name: "Update sheldon plugins", Action: pluginUpdateAction(dryRun)},
				{Name: "Validate core tools", Action: validateToolsAction()},
				{Name: "Reconcile tracked dependencies", Action: reconcileAction(cfg, apply && !dryRun)},
			}

			if system {
				if !yes && !dryRun && !confirm("System package updates may require sudo. Continue?") {
					printer.Info("Update cancelled")
					return nil
				}
				operations = append(operations, steps.Operation{
					Name:   "Update system packages",
					Action: systemUpdateAction(dryRun),
				})
			}

			code := orchestrator.Run(cmd.Context(), operations)
			if code != 0 {
				return &exitError{code: code}
			}
			printer.FinalSuccess("Update complete!")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would run without making changes")
	cmd.Flags().BoolVar(&system, "system", false, "Also update system packages (requires sudo)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Upgrade upgradable dependencies instead of only reporting")
	cmd.Flags().BoolVar(&verbose, "show-output", false, "Replay full captured output even on success")
	return cmd
}

// confirm asks an interactive yes/no question, defaulting to no. A
// non-interactive stderr means no prompt and an implicit yes, matching
// scripted use.
func confirm(question string) bool {
	if !isInteractive() {
		return true
	}
	ok, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
	return ok
}

func isInteractive() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
