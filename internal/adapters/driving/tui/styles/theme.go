// Package styles provides the colour palette and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Info is the symbol badge and unselected button colour.
	Info lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text such as prices.
	Muted lipgloss.Color

	// Success marks rising prices and selected assets.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error marks falling prices and failures.
	Error lipgloss.Color

	// Border is the card border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Info:       lipgloss.Color("#06B6D4"), // Cyan
		Background: lipgloss.Color("#1E1E2E"), // Dark gray
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the application header.
	Title lipgloss.Style

	// Section style for "Selected Assets" and "Available Assets".
	Section lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// Card is the border around an asset.
	Card lipgloss.Style

	// CardFocused is the border around the asset under the cursor.
	CardFocused lipgloss.Style

	// AssetName renders the asset name on a card.
	AssetName lipgloss.Style

	// Badge renders the ticker symbol.
	Badge lipgloss.Style

	// Increase and Decrease colour the 24 hour change.
	Increase lipgloss.Style
	Decrease lipgloss.Style

	// Button is the unselected toggle, ButtonSelected the selected one.
	Button         lipgloss.Style
	ButtonSelected lipgloss.Style

	// Placeholder is the dashed box shown when nothing is selected.
	Placeholder lipgloss.Style

	// InputField style for the filter input.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		CardFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		AssetName: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Background).
			Background(theme.Info).
			Padding(0, 1),

		Increase: lipgloss.NewStyle().
			Foreground(theme.Success),

		Decrease: lipgloss.NewStyle().
			Foreground(theme.Error),

		Button: lipgloss.NewStyle().
			Foreground(theme.Info).
			Align(lipgloss.Center),

		ButtonSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Background).
			Background(theme.Success).
			Align(lipgloss.Center),

		Placeholder: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Muted).
			Align(lipgloss.Center).
			Padding(1, 2),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
