// Package list provides a navigable list component for the report browser.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Item is one row of the list.
type Item struct {
	// ID identifies the row to the caller (report or document ID).
	ID string

	// Title is shown on the first line.
	Title string

	// Badge is shown after the title, styled by State.
	Badge string
	State domain.DocumentState

	// Detail is shown muted on a second line when non-empty.
	Detail string
}

// List displays items with a selection cursor.
type List struct {
	items    []Item
	selected int
	styles   *styles.Styles
	empty    string
	width    int
	height   int
}

// New creates a list that shows emptyText when it has no items.
func New(s *styles.Styles, emptyText string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		styles: s,
		empty:  emptyText,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the visible window of items around the selection.
func (l *List) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	// Two lines per item
	visibleCount := l.height / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.items))

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderItem(index int, item *Item) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	maxTitleLen := max(l.width-20, 10)
	title := truncate(item.Title, maxTitleLen)

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title))
	} else {
		line = l.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title))
	}
	if item.Badge != "" {
		line += "  " + l.styles.Outcome(item.State).Render(item.Badge)
	}

	if item.Detail == "" {
		return line
	}
	return line + "\n" + l.styles.Muted.Render("    "+truncate(item.Detail, max(l.width-6, 20)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetItems replaces the items and resets the selection.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.selected = 0
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.selected
}

// SelectedItem returns the selected item, or nil if the list is empty.
func (l *List) SelectedItem() *Item {
	if len(l.items) == 0 {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of items.
func (l *List) Count() int {
	return len(l.items)
}
