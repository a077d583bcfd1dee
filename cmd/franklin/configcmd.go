package franklin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/pkg/config"
	"github.com/arthur-debert/franklin/pkg/ui"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(flags)

			if color != "" {
				return setMOTDColor(printer, color)
			}
			return runInteractiveConfig(flags, printer)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Set MOTD color (palette name or #rrggbb)")
	return cmd
}

func setMOTDColor(printer *ui.Printer, color string) error {
	name, hex, err := config.ResolveColor(color)
	if err != nil {
		printer.Error(err.Error())
		printer.Info("Valid colors: " + strings.Join(config.ColorNames(), ", "))
		printer.Info("Or use hex format: #rrggbb")
		return &exitError{code: 1}
	}
	if err := config.SaveMOTDColor(name, hex); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("MOTD color set to %s (%s)", color, hex))
	return nil
}

func runInteractiveConfig(flags *rootFlags, printer *ui.Printer) error {
	printer.Header("Franklin Configuration")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	printer.Branch(fmt.Sprintf("Current MOTD color: %s (%s)",
		cfg.MOTD.Color, config.BaseHex(cfg.MOTD.Color)))

	names := config.ColorNames()
	printer.Branch("Available Campfire colors:")
	for _, name := range names {
		variants := config.CampfireColors[name]
		swatch := "████"
		if !flags.noColor {
			swatch = lipgloss.NewStyle().
				Foreground(lipgloss.Color(variants.Base)).
				Render(swatch)
		}
		printer.Raw(fmt.Sprintf("  %s  %-15s (%s)", swatch, name, variants.Base))
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(names).
		WithDefaultOption(config.DefaultColor).
		Show("Select a color")
	if err != nil {
		return err
	}
	return setMOTDColor(printer, choice)
}
