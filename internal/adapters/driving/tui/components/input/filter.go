// Package input provides text input components for the report browser.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/styles"
)

// Filter wraps a bubbles textinput for narrowing lists by document ID.
type Filter struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewFilter creates an unfocused filter input.
func NewFilter(s *styles.Styles) *Filter {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "document ID contains..."
	ti.CharLimit = 256
	ti.Width = 40

	return &Filter{textinput: ti, styles: s}
}

// Update handles input messages.
func (f *Filter) Update(msg tea.Msg) (*Filter, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the filter input.
func (f *Filter) View() string {
	label := f.styles.Subtitle.Render("Find: ")
	return lipgloss.JoinHorizontal(lipgloss.Center, label, f.styles.Input.Render(f.textinput.View()))
}

// Value returns the current input value.
func (f *Filter) Value() string {
	return f.textinput.Value()
}

// Focus sets focus on the input.
func (f *Filter) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Filter) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Filter) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input, leaving room for the label.
func (f *Filter) SetWidth(width int) {
	f.textinput.Width = max(width-12, 20)
}

// Reset clears the input.
func (f *Filter) Reset() {
	f.textinput.Reset()
}
