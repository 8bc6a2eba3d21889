package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the terminal interface
type Theme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in themes
var (
	// DarkTheme is the default theme, tuned for dark terminals
	DarkTheme = Theme{
		Name:        "dark",
		Description: "Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme is an alternative for bright terminal backgrounds
	LightTheme = Theme{
		Name:        "light",
		Description: "Light theme for bright terminals",

		Background: lipgloss.Color("#e1e2e7"),
		Surface:    lipgloss.Color("#d0d5e3"),
		Border:     lipgloss.Color("#a8aecb"),

		Primary:   lipgloss.Color("#2e7de9"), // Blue
		Secondary: lipgloss.Color("#587539"), // Green
		Accent:    lipgloss.Color("#9854f1"), // Purple
		Warning:   lipgloss.Color("#8c6c3e"), // Amber
		Error:     lipgloss.Color("#f52a65"), // Red

		Text:     lipgloss.Color("#343b58"),
		TextDim:  lipgloss.Color("#6172b0"),
		TextMute: lipgloss.Color("#a1a6c5"),
	}
)

// currentTheme holds the currently active theme
var currentTheme = DarkTheme

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme by name and reports whether the name was
// recognized. Styles are not rebuilt until UpdateTheme runs.
func SetTheme(name string) bool {
	theme, ok := ThemeByName(name)
	if ok {
		currentTheme = theme
		return true
	}
	return false
}

// ThemeByName returns a theme by its name
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	default:
		return Theme{}, false
	}
}

// AvailableThemes returns a list of all built-in themes
func AvailableThemes() []Theme {
	return []Theme{
		DarkTheme,
		LightTheme,
	}
}

// ThemeNames returns just the theme names for selection
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
