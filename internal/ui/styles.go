package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - connected, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - in progress
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

var (
	// BrandStyle renders the device brand in the page header.
	BrandStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// NavStyle renders one menu entry.
	NavStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// TitleStyle renders page titles ("WiFi setup").
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(2)

	// LabelStyle renders passive text.
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(2)

	// MutedStyle renders secondary text such as element ids and counters.
	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// InputStyle renders input values.
	InputStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Underline(true)

	// ButtonStyle renders buttons and links.
	ButtonStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// NetworkStyle renders scan result entries.
	NetworkStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(4)

	// StatusStyle renders the connection status line.
	StatusStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			PaddingLeft(2)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// HintStyle is for troubleshooting hints
	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	EncryptedMark = "🔒"
)

// GetTerminalWidth returns the current terminal width clamped to the
// supported range.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	return ClampWidth(width, err)
}

// ClampWidth bounds a measured terminal width. A measurement error yields
// the minimum width.
func ClampWidth(width int, err error) int {
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// PageBoxStyle returns the border style around a rendered page.
func PageBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2).
		Padding(0, 1)
}

// SuccessBoxStyle returns the border style for success result boxes
func SuccessBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SuccessColor).
		Width(width-2).
		Padding(1, 2)
}

// ErrorBoxStyle returns the border style for error result boxes
func ErrorBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width-2).
		Padding(1, 2)
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
