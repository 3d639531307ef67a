package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// NoColor reports whether NO_COLOR is set, with any value.
func NoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

// Palette shared by the cycle report, doctor and validate output.
var (
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F39C12")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#95A5A6")
	ColorAccent  = lipgloss.Color("#9B59B6")
)

var (
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	// StyleMuted is used for arrows, sizes and durations.
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
)

// applyColorMode strips colour from the package styles and from l when
// NO_COLOR is set. Without it, lipgloss still colours output on a TTY.
func applyColorMode(l *log.Logger) {
	if !NoColor() {
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
	l.SetColorProfile(termenv.Ascii)
}
