package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/neardup/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/neardup/internal/core/domain"
)

// OutcomeFilter selects which outcomes of a report are listed.
type OutcomeFilter int

const (
	FilterAll OutcomeFilter = iota
	FilterDuplicates
	FilterRejected
	FilterUnique
)

// String returns the label shown in the report header.
func (f OutcomeFilter) String() string {
	switch f {
	case FilterDuplicates:
		return "duplicates"
	case FilterRejected:
		return "rejected"
	case FilterUnique:
		return "unique"
	default:
		return "all"
	}
}

func (f OutcomeFilter) next() OutcomeFilter {
	return (f + 1) % 4
}

func (f OutcomeFilter) matches(state domain.DocumentState) bool {
	switch f {
	case FilterDuplicates:
		return state == domain.StateDuplicate
	case FilterRejected:
		return state == domain.StateRejected
	case FilterUnique:
		return state == domain.StateUnique
	default:
		return true
	}
}

// headerLines is the space taken above and below the lists.
const headerLines = 6

// App is the report browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	reportList  *list.List
	outcomeList *list.List
	statusBar   *status.Bar
	find        *input.Filter

	reports []domain.ReportSummary
	report  *domain.ReportSummary
	filter  OutcomeFilter

	// openID is opened as soon as the report list has loaded.
	openID string

	currentView  messages.ViewType
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a report browser over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reportList:  list.New(s, "No reports saved. Run 'neardup dedup --save' first."),
		outcomeList: list.New(s, "No matching documents."),
		statusBar:   status.NewBar(s, km),
		find:        input.NewFilter(s),
		currentView: messages.ViewReports,
	}, nil
}

// WithContext sets the context used for store reads.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithReport opens the report with the given ID once reports have loaded.
func (a *App) WithReport(id string) *App {
	a.openID = id
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("neardup - Reports"),
		a.loadReports(),
	)
}

func (a *App) loadReports() tea.Cmd {
	return func() tea.Msg {
		reports, err := a.ports.Reports.ListReports(a.ctx)
		return messages.ReportsLoaded{Reports: reports, Err: err}
	}
}

func (a *App) loadReport(id string) tea.Cmd {
	return func() tea.Msg {
		report, err := a.ports.Reports.GetReport(a.ctx, id)
		return messages.ReportLoaded{Report: report, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.ReportsLoaded:
		return a, a.handleReportsLoaded(msg)

	case messages.ReportLoaded:
		a.handleReportLoaded(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleReportsLoaded(msg messages.ReportsLoaded) tea.Cmd {
	if msg.Err != nil {
		a.setError(fmt.Errorf("listing reports: %w", msg.Err))
		return nil
	}

	a.err = nil
	a.reports = msg.Reports
	items := make([]list.Item, len(msg.Reports))
	for i, r := range msg.Reports {
		items[i] = list.Item{
			ID:     r.ID,
			Title:  r.ID,
			Badge:  r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			Detail: fmt.Sprintf("processed %d, retained %d, duplicates %d, rejected %d", r.Processed, r.Retained, r.Duplicates, r.Rejected),
		}
	}
	a.reportList.SetItems(items)
	a.statusBar.SetState(status.StateReady, fmt.Sprintf("%d reports", len(items)))

	if id := a.openID; id != "" {
		a.openID = ""
		a.statusBar.SetState(status.StateLoading, "")
		return a.loadReport(id)
	}
	return nil
}

func (a *App) handleReportLoaded(msg messages.ReportLoaded) {
	if msg.Err != nil {
		a.setError(fmt.Errorf("loading report: %w", msg.Err))
		return
	}

	a.err = nil
	a.report = msg.Report
	a.filter = FilterAll
	a.find.Reset()
	a.find.Blur()
	a.refreshOutcomes()
	a.currentView = messages.ViewOutcomes
	a.statusBar.SetHints(a.keymap.OutcomesHelp())
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	// Typing into the find box captures every key but enter and esc.
	if a.find.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			a.find.Blur()
		case tea.KeyEsc:
			a.find.Reset()
			a.find.Blur()
			a.refreshOutcomes()
		default:
			var cmd tea.Cmd
			a.find, cmd = a.find.Update(msg)
			a.refreshOutcomes()
			return a, cmd
		}
		return a, nil
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = a.previousView
		} else {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewReports:
		switch {
		case keymap.Matches(keyStr, a.keymap.Open):
			if item := a.reportList.SelectedItem(); item != nil {
				a.statusBar.SetState(status.StateLoading, "")
				return a, a.loadReport(item.ID)
			}
		case keymap.Matches(keyStr, a.keymap.Refresh):
			a.statusBar.SetState(status.StateLoading, "")
			return a, a.loadReports()
		default:
			a.reportList, cmd = a.reportList.Update(msg)
		}

	case messages.ViewOutcomes:
		switch {
		case keymap.Matches(keyStr, a.keymap.Back):
			a.currentView = messages.ViewReports
			a.statusBar.SetHints(a.keymap.ReportsHelp())
			a.statusBar.SetState(status.StateReady, fmt.Sprintf("%d reports", a.reportList.Count()))
		case keymap.Matches(keyStr, a.keymap.Filter):
			a.filter = a.filter.next()
			a.refreshOutcomes()
		case keymap.Matches(keyStr, a.keymap.Find):
			cmd = a.find.Focus()
		default:
			a.outcomeList, cmd = a.outcomeList.Update(msg)
		}

	case messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) {
			a.currentView = a.previousView
		}
	}

	return a, cmd
}

// refreshOutcomes rebuilds the outcome list from the open report, the
// state filter and the find text.
func (a *App) refreshOutcomes() {
	if a.report == nil {
		return
	}

	needle := strings.ToLower(a.find.Value())
	items := make([]list.Item, 0, len(a.report.Outcomes))
	for _, o := range a.report.Outcomes {
		if !a.filter.matches(o.State) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(o.DocumentID), needle) {
			continue
		}
		items = append(items, outcomeItem(o))
	}
	a.outcomeList.SetItems(items)
	a.statusBar.SetState(status.StateReady,
		fmt.Sprintf("%d of %d documents", len(items), len(a.report.Outcomes)))
}

func outcomeItem(o domain.Outcome) list.Item {
	item := list.Item{
		ID:    o.DocumentID,
		Title: o.DocumentID,
		Badge: o.State.String(),
		State: o.State,
	}
	switch o.State {
	case domain.StateDuplicate:
		item.Detail = fmt.Sprintf("duplicate of %s (similarity %.3f)", o.OriginalID, o.Similarity)
	case domain.StateRejected:
		item.Detail = o.Reason
	}
	return item
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError, err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewOutcomes:
		body = a.viewOutcomes()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.viewReports()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

func (a *App) viewReports() string {
	return strings.Join([]string{
		a.styles.Title.Render("Saved reports"),
		"",
		a.reportList.View(),
		"",
	}, "\n")
}

func (a *App) viewOutcomes() string {
	r := a.report
	settings := fmt.Sprintf("hash=%s hashes=%d bits=%d shingle=%d threshold=%g seed=%s",
		r.Settings.Hash, r.Settings.NHashes, r.Settings.NBits, r.Settings.ShingleSize,
		r.Settings.JaccardThreshold, r.Settings.SeedString())

	filterLine := a.styles.Muted.Render("Showing: " + a.filter.String())
	if a.find.Focused() || a.find.Value() != "" {
		filterLine += "  " + a.find.View()
	}

	return strings.Join([]string{
		a.styles.Title.Render("Report " + r.ID),
		a.styles.Normal.Render(fmt.Sprintf("processed %d, retained %d, duplicates %d, rejected %d",
			r.Processed, r.Retained, r.Duplicates, r.Rejected)),
		a.styles.Muted.Render(settings),
		filterLine,
		"",
		a.outcomeList.View(),
		"",
	}, "\n")
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Report returns the open report, or nil on the report list.
func (a *App) Report() *domain.ReportSummary {
	return a.report
}

// Filter returns the active outcome filter.
func (a *App) Filter() OutcomeFilter {
	return a.filter
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	listHeight := max(height-headerLines, 2)
	a.reportList.SetDimensions(width, listHeight)
	a.outcomeList.SetDimensions(width, listHeight)
	a.statusBar.SetWidth(width)
	a.find.SetWidth(width / 2)
}
