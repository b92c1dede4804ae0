package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the monitor UI
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - connected, battery ok
	ErrorColor   = lipgloss.Color("#FF5555") // Red - disconnected, battery low
	WarningColor = lipgloss.Color("#FFA500") // Orange - reconnecting
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	// TitleStyle is for the monitor header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// SubtitleStyle is for the stream URL under the title
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ConnectedStyle marks a live stream connection
	ConnectedStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// DisconnectedStyle marks a lost stream connection
	DisconnectedStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// TableHeaderStyle is for the record table column headers
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// RowStyle is for record table rows
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// LatestRowStyle highlights the newest record
	LatestRowStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// BatteryLowStyle is for the low battery marker
	BatteryLowStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
