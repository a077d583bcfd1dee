package franklin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/pkg/config"
	"github.com/arthur-debert/franklin/pkg/deps"
	"github.com/arthur-debert/franklin/pkg/reconcile"
	"github.com/arthur-debert/franklin/pkg/ui"
)

func newDepsCmd(flags *rootFlags) *cobra.Command {
	var (
		apply   bool
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "deps",
		Short: MsgDepsShort,
		Long:  MsgDepsLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := resolveFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			manifest, err := deps.LoadManifest(cfg.Deps.Manifest)
			if err != nil {
				return err
			}

			printer := newPrinter(flags)
			printer.Logic("Checking tracked dependencies...")

			// Upgrade output is chatter; only surface it when asked.
			var upgradeOut io.Writer = io.Discard
			if verbose {
				upgradeOut = os.Stderr
			}

			reconciler := reconcile.New(reconcile.Options{
				SettleDelay: time.Duration(cfg.Update.SettleDelayMS) * time.Millisecond,
			})
			records, code := reconciler.Run(cmd.Context(),
				deps.Build(manifest, upgradeOut), apply)

			if outputFormat == ui.FormatJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(records); err != nil {
					return err
				}
			} else {
				if err := renderDepsTable(records); err != nil {
					return err
				}
				printAttentionBadges(printer, records, apply)
			}

			if code != 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Upgrade upgradable dependencies instead of only reporting")
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	cmd.Flags().BoolVar(&verbose, "show-output", false, "Stream upgrade command output")
	return cmd
}

func renderDepsTable(records []reconcile.Record) error {
	data := pterm.TableData{{"DEPENDENCY", "INSTALLED", "LATEST", "TYPE", "STATUS"}}
	for _, rec := range records {
		data = append(data, []string{
			rec.Name, rec.Installed, rec.Latest, rec.TypeName, rec.StatusStr,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	rendered, err := table.Srender()
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

// printAttentionBadges surfaces every record that keeps the pass from being
// clean, at the point of failure rather than deferred to a summary.
func printAttentionBadges(printer *ui.Printer, records []reconcile.Record, apply bool) {
	attention := 0
	for _, rec := range records {
		if !reconcile.NeedsAttention(rec, apply) {
			continue
		}
		attention++
		switch rec.Status {
		case reconcile.StatusUpgradeFailed:
			printer.Error(fmt.Sprintf("%s: upgrade to %s failed", rec.Name, rec.Latest))
		case reconcile.StatusUpdatePending:
			printer.Warning(fmt.Sprintf("%s: upgrade reported success but %s is still installed",
				rec.Name, rec.Installed))
		case reconcile.StatusLagging:
			printer.Warning(fmt.Sprintf("%s: %s lags upstream %s (managed by the system package manager)",
				rec.Name, rec.Installed, rec.Latest))
		case reconcile.StatusUpdateAvailable:
			printer.Info(fmt.Sprintf("%s: %s -> %s available (run with --apply)",
				rec.Name, rec.Installed, rec.Latest))
		}
	}

	if attention == 0 {
		printer.FinalSuccess("All tracked dependencies are current")
	}
}
