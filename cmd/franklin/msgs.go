package franklin

// User-facing message constants, separated from command wiring.
const (
	MsgRootShort = "A modern Zsh environment manager with cross-platform support"
	MsgRootLong  = `franklin manages a Zsh environment: it installs and updates the shell
toolchain (plugin manager, prompt, core utilities), keeps tracked
dependencies reconciled against their upstream releases, and renders the
login banner.`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagNoColor = "Disable color output (also respected via NO_COLOR or FRANKLIN_NO_COLOR)"
	MsgFlagQuiet   = "Suppress progress and badge output"
	MsgFlagFormat  = "Output format: auto, term, text, or json"

	MsgUpdateShort    = "Update franklin core files from the repository"
	MsgUpdateAllShort = "Update franklin core, plugins, and tracked dependencies"
	MsgUpdateAllLong  = `update-all runs the full maintenance pass: franklin core, sheldon
plugins, core tool validation, and dependency reconciliation. Every step
runs even if an earlier one fails; the final tally decides the exit code.

With --system, system packages are updated as well (requires sudo).
With --apply, upgradable dependencies are upgraded and re-verified.`

	MsgDepsShort = "Reconcile tracked dependency versions against upstream"
	MsgDepsLong  = `deps checks each tracked dependency: what is installed, what upstream
considers latest, and whether the two agree. By default it only reports;
--apply upgrades whatever is upgradable and verifies the result.

Dependencies owned by the system package manager are reported as lagging
but never upgraded here.`

	MsgDoctorShort  = "Run diagnostic checks on the franklin environment"
	MsgMOTDShort    = "Display the message-of-the-day banner"
	MsgConfigShort  = "Configure franklin settings"
	MsgVersionShort = "Print version information"
)
