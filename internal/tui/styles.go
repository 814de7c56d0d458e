// Package tui provides terminal output components for Satchel.
//
// A centralized style system using Lip Gloss keeps command output consistent.
// All colors use AdaptiveColor for light/dark terminal support. Call
// CheckNoColor() at the start of commands to respect the NO_COLOR environment
// variable; colors are also disabled when TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // intentional package-level constants for styling API
var (
	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warning states.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error states.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorInfo is blue, used for informational text.
	ColorInfo = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}
)

// OutputStyles holds the lipgloss styles used by command output.
type OutputStyles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Panel   lipgloss.Style
}

// NewOutputStyles creates the default output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Info:    lipgloss.NewStyle().Foreground(ColorInfo),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1),
	}
}

// CheckNoColor disables colored output when NO_COLOR is set or the terminal
// is dumb.
func CheckNoColor() {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
