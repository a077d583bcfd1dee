package franklin

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/internal/version"
	"github.com/arthur-debert/franklin/pkg/config"
	"github.com/arthur-debert/franklin/pkg/motd"
)

func newMOTDCmd(flags *rootFlags) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "motd",
		Short: MsgMOTDShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			motd.Render(motd.Options{
				Width:   width,
				Color:   config.BaseHex(cfg.MOTD.Color),
				Version: version.Version,
				NoColor: flags.noColor,
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Banner width (0 auto-detects)")
	return cmd
}
