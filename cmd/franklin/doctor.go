package franklin

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/franklin/pkg/ui"
)

// doctorCheck is one diagnostic probe: a label and what was found.
type doctorCheck struct {
	Key   string
	Value string
	OK    bool
}

func newDoctorCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: MsgDoctorShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := resolveFormat(format)
			if err != nil {
				return err
			}

			printer := newPrinter(flags)
			printer.Logic("Checking Environment...")

			checks := runDoctorChecks(cmd.Context())

			if outputFormat == ui.FormatJSON {
				out := make(map[string]string, len(checks))
				for _, c := range checks {
					out[c.Key] = c.Value
				}
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(out); err != nil {
					return err
				}
			} else {
				pairs := make([][2]string, 0, len(checks))
				for _, c := range checks {
					pairs = append(pairs, [2]string{c.Key, c.Value})
				}
				printer.Columnar(pairs)
			}

			for _, c := range checks {
				if !c.OK {
					return &exitError{code: 1}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}

func runDoctorChecks(ctx context.Context) []doctorCheck {
	var checks []doctorCheck

	if version := commandVersion(ctx, "zsh", 1); version != "" {
		checks = append(checks, doctorCheck{"Shell", "Zsh " + version, true})
	} else {
		checks = append(checks, doctorCheck{"Shell", "Zsh not found", false})
	}

	if version := commandVersion(ctx, "sheldon", 1); version != "" {
		checks = append(checks, doctorCheck{"Plugin Manager", "Sheldon " + version, true})
	} else {
		checks = append(checks, doctorCheck{"Plugin Manager", "Sheldon not found", false})
	}

	if version := commandVersion(ctx, "starship", 1); version != "" {
		checks = append(checks, doctorCheck{"Prompt", "Starship " + version, true})
	} else {
		checks = append(checks, doctorCheck{"Prompt", "Starship not found", false})
	}

	if hasBat() {
		checks = append(checks, doctorCheck{"bat", "present", true})
	} else {
		checks = append(checks, doctorCheck{"bat", "not found", false})
	}

	root := franklinRoot()
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		checks = append(checks, doctorCheck{"Franklin Root", root, true})
	} else {
		checks = append(checks, doctorCheck{"Franklin Root", "Not found", false})
	}

	return checks
}

// commandVersion runs `name --version` and extracts the given whitespace
// field of the first output line. Empty means not found or unparsable.
func commandVersion(ctx context.Context, name string, field int) string {
	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	tokens := strings.Fields(line)
	if field >= len(tokens) {
		return ""
	}
	return tokens[field]
}

// hasBat accepts batcat, Debian's renamed bat binary.
func hasBat() bool {
	for _, name := range []string{"bat", "batcat"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
