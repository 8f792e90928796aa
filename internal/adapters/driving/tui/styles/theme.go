// Package styles provides the colour theme and lipgloss styles of the
// report browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	StatusBg   lipgloss.Color

	// Outcome colours.
	Unique    lipgloss.Color
	Duplicate lipgloss.Color
	Rejected  lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Border:     lipgloss.Color("#45475A"), // Border gray
		StatusBg:   lipgloss.Color("#181825"),
		Unique:     lipgloss.Color("#A6E3A1"), // Green
		Duplicate:  lipgloss.Color("#F9E2AF"), // Yellow
		Rejected:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Error     lipgloss.Style
	Input     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// Per-outcome badges, see Outcome.
	Unique    lipgloss.Style
	Duplicate lipgloss.Style
	Rejected  lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Rejected),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.StatusBg).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Unique: lipgloss.NewStyle().
			Foreground(theme.Unique),

		Duplicate: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Duplicate),

		Rejected: lipgloss.NewStyle().
			Foreground(theme.Rejected),
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

// Outcome returns the badge style for a document state.
// Non-terminal states use the muted style.
func (s *Styles) Outcome(state domain.DocumentState) lipgloss.Style {
	switch state {
	case domain.StateUnique:
		return s.Unique
	case domain.StateDuplicate:
		return s.Duplicate
	case domain.StateRejected:
		return s.Rejected
	default:
		return s.Muted
	}
}
