package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for UI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for important elements.
	Primary string
	// Secondary is used for less prominent elements.
	Secondary string
	// Success indicates positive outcomes or completed operations.
	Success string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Bold is the escape code for bold text.
	Bold string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TableStyles holds the lipgloss styles used to render record tables.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	// Forced highlights rows for forced GC cycles.
	Forced lipgloss.Style
}

// GetTableStyles returns the table styles matching the active theme.
func GetTableStyles() TableStyles {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	base := lipgloss.NewStyle().Padding(0, 1)
	if currentTheme.Name == "none" {
		return TableStyles{
			Header: base.Bold(true),
			Cell:   base,
			Border: lipgloss.NewStyle(),
			Forced: base,
		}
	}
	accent, dim, warn := lipgloss.Color("39"), lipgloss.Color("245"), lipgloss.Color("220")
	if currentTheme.Name == "light" {
		accent, dim, warn = lipgloss.Color("27"), lipgloss.Color("240"), lipgloss.Color("130")
	}
	return TableStyles{
		Header: base.Bold(true).Foreground(accent),
		Cell:   base,
		Border: lipgloss.NewStyle().Foreground(dim),
		Forced: base.Foreground(warn),
	}
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme selects the active theme. noColor, or a set NO_COLOR
// environment variable (https://no-color.org/), disables colors; otherwise
// name picks "light" or "dark", and anything else falls back to dark.
func InitTheme(noColor bool, name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		currentTheme = NoColorTheme
		return
	}
	if name == LightTheme.Name {
		currentTheme = LightTheme
		return
	}
	currentTheme = DarkTheme
}

// ColorsEnabled reports whether the active theme emits escape codes.
func ColorsEnabled() bool {
	return GetCurrentTheme().Name != "none"
}

// ColorGreen returns the success color of the active theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color of the active theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorDim returns the secondary color of the active theme.
func ColorDim() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code of the active theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset returns the reset escape code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }
