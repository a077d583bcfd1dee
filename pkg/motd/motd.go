// Package motd renders the Campfire login banner: hostname and address
// header, disk and memory stats with progress bars, and running docker
// containers and services in a grid, colored with the user's palette choice.
package motd

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/arthur-debert/franklin/pkg/ui"
)

const (
	// MaxWidth and MinWidth clamp the banner regardless of terminal size.
	MaxWidth = 80
	MinWidth = 40

	borderChar = "─"
	gridItem   = 22
)

// Options configures a banner render.
type Options struct {
	// Out defaults to os.Stdout.
	Out io.Writer
	// Width of the banner; 0 auto-detects from the terminal.
	Width int
	// Color is the base hex color for the banner.
	Color string
	// Version shown in the header.
	Version string
	// NoColor renders without styling.
	NoColor bool
}

// Render draws the banner.
func Render(opts Options) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	width := opts.Width
	if width <= 0 {
		width = pterm.GetTerminalWidth()
	}
	width = ClampWidth(width)

	style := lipgloss.NewStyle()
	if !opts.NoColor && opts.Color != "" {
		style = style.Foreground(lipgloss.Color(opts.Color))
	}
	line := func(s string) {
		fmt.Fprintln(out, style.Render(s))
	}

	hr := strings.Repeat(borderChar, width)

	header := fmt.Sprintf(" > %s (%s)", hostname(), ipAddress())
	versionText := fmt.Sprintf("🐢 %s", opts.Version)
	line(hr)
	line(padBetween(header, versionText, width))
	line(hr)

	diskBar, diskPct, diskUsed, diskTotal := diskStats()
	memUsed, memTotal := memStats()
	stats := fmt.Sprintf("  %s %.0f%% %s/%s", diskBar, diskPct, diskUsed, diskTotal)
	stats += strings.Repeat(" ", 15) + fmt.Sprintf("RAM %s/%s", memUsed, memTotal)
	line(padBetween(stats, osVersion(), width))
	line(" " + hr)

	if containers := dockerContainers(); len(containers) > 0 {
		line(" Docker Containers:")
		for _, row := range FormatGrid(containers, width, gridItem) {
			line(row)
		}
		fmt.Fprintln(out)
	}

	if services := runningServices(); len(services) > 0 {
		line(" Services:")
		for _, row := range FormatGrid(services, width, gridItem) {
			line(row)
		}
		fmt.Fprintln(out)
	}
}

// ClampWidth constrains a terminal width to the banner's bounds.
func ClampWidth(width int) int {
	if width > MaxWidth {
		return MaxWidth
	}
	if width < MinWidth {
		return MinWidth
	}
	return width
}

// ProgressBar renders a |███░░░| usage bar for a 0-100 percentage.
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return "|" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "|"
}

// FormatGrid lays items out in rows of fixed-width cells prefixed with the
// action glyph.
func FormatGrid(items []string, width, maxItemWidth int) []string {
	if len(items) == 0 {
		return nil
	}

	perLine := (width - 1) / maxItemWidth
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	for start := 0; start < len(items); start += perLine {
		end := start + perLine
		if end > len(items) {
			end = len(items)
		}
		var row strings.Builder
		for _, item := range items[start:end] {
			row.WriteString(fmt.Sprintf(" %s %-*s", ui.GlyphAction, maxItemWidth-4, item))
		}
		lines = append(lines, row.String())
	}
	return lines
}

// padBetween right-aligns the trailing text on the same line.
func padBetween(left, right string, width int) string {
	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// ipAddress finds the primary outbound address without sending any packets.
func ipAddress() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "0.0.0.0"
	}
	defer func() { _ = conn.Close() }()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "0.0.0.0"
}

func osVersion() string {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("sw_vers", "-productVersion").Output()
		if err != nil {
			return "macOS"
		}
		return "macOS " + strings.TrimSpace(string(out))
	case "linux":
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return "Linux"
		}
		fields := parseOSRelease(string(data))
		name := fields["NAME"]
		if name == "" {
			name = "Linux"
		}
		if version := fields["VERSION_ID"]; version != "" {
			return name + " " + version
		}
		return name
	default:
		return runtime.GOOS
	}
}

func parseOSRelease(data string) map[string]string {
	fields := map[string]string{}
	for _, line := range strings.Split(data, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}

func diskStats() (bar string, percent float64, used, total string) {
	usage, err := disk.Usage("/")
	if err != nil {
		return "|??????????|", 0, "??", "??"
	}
	return ProgressBar(usage.UsedPercent, 10),
		usage.UsedPercent,
		fmt.Sprintf("%.0fG", float64(usage.Used)/(1<<30)),
		fmt.Sprintf("%.0fG", float64(usage.Total)/(1<<30))
}

func memStats() (used, total string) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "??", "??"
	}
	return fmt.Sprintf("%.0fG", float64(vm.Used)/(1<<30)),
		fmt.Sprintf("%.0fG", float64(vm.Total)/(1<<30))
}

func dockerContainers() []string {
	out, err := exec.Command("docker", "ps", "--format", "{{.Names}}").Output()
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}

func runningServices() []string {
	if runtime.GOOS != "linux" {
		return nil
	}
	out, err := exec.Command("systemctl", "--type=service", "--state=running",
		"--no-pager", "--no-legend").Output()
	if err != nil {
		return nil
	}
	var services []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			services = append(services, strings.TrimSuffix(fields[0], ".service"))
		}
	}
	return services
}
