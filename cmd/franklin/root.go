// Package franklin wires the CLI commands together.
package franklin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/internal/version"
	"github.com/arthur-debert/franklin/pkg/cleanup"
	"github.com/arthur-debert/franklin/pkg/config"
	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/platform"
	"github.com/arthur-debert/franklin/pkg/spinner"
	"github.com/arthur-debert/franklin/pkg/ui"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	verbosity int
	noColor   bool
	quiet     bool
}

// exitError carries a non-zero process exit code through cobra without any
// additional error printing; the failure detail has already been shown at
// the point of failure.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// ExitCode extracts the process exit code from a command error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// Silenced reports whether the error was already reported at the point of
// failure and should not be printed again by main.
func Silenced(err error) bool {
	var ee *exitError
	return errors.As(err, &ee)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "franklin",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			cleanup.InstallSignalHandler()
			// A run must not leave cached sudo credentials behind,
			// whether it exits normally or is interrupted.
			cleanup.Register(platform.RevokeSudo)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, MsgFlagQuiet)

	rootCmd.AddCommand(newUpdateCmd(flags))
	rootCmd.AddCommand(newUpdateAllCmd(flags))
	rootCmd.AddCommand(newDepsCmd(flags))
	rootCmd.AddCommand(newDoctorCmd(flags))
	rootCmd.AddCommand(newMOTDCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newPrinter builds the Campfire printer for chrome output on stderr.
func newPrinter(flags *rootFlags) *ui.Printer {
	color := !flags.noColor && ui.DetectFormat(os.Stderr) == ui.FormatTerminal
	return ui.New(ui.Options{Color: color, Quiet: flags.quiet})
}

// resolveFormat parses a --format flag value, resolving auto against stdout
// since that is where the data output goes.
func resolveFormat(value string) (ui.Format, error) {
	format, err := ui.ParseFormat(value)
	if err != nil {
		return format, err
	}
	if format == ui.FormatAuto {
		format = ui.DetectFormat(os.Stdout)
	}
	return format, nil
}

// newSpinner builds the progress renderer from config and flags.
func newSpinner(cfg *config.Config, flags *rootFlags, printer *ui.Printer, verbose bool) *spinner.Renderer {
	return spinner.New(spinner.Options{
		Printer:   printer,
		Interval:  time.Duration(cfg.Update.SpinnerIntervalMS) * time.Millisecond,
		TailLines: cfg.Update.TailLines,
		Quiet:     flags.quiet,
		Verbose:   verbose,
		NoColor:   flags.noColor,
	})
}

// franklinRoot is where the core checkout lives.
func franklinRoot() string {
	if root := os.Getenv("FRANKLIN_ROOT"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "franklin")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("franklin version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
