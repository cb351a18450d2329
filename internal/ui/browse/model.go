package browse

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recallscore/internal/report"
	"recallscore/internal/runner"
)

// chromeLines is the space used by header, totals, and help lines.
const chromeLines = 4

// Model is an interactive session browser for a scoring run.
type Model struct {
	results runner.Results
	table   table.Model
	detail  bool
	noColor bool
}

// NewModel builds a browser over the sessions of results.
func NewModel(results runner.Results, noColor bool) Model {
	columns := report.SessionColumns()
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(report.SessionRows(results)),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithWidth(report.TableWidth(columns)),
	)
	t.SetStyles(report.TableStyles(noColor))
	return Model{results: results, table: t, noColor: noColor}
}

// Init has nothing to start; the browser only reacts to input.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles resizing, quitting, and toggling the detail pane; other keys move the cursor.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-chromeLines-m.detailHeight(), 3))
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter", "d":
			m.detail = !m.detail
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table and, when toggled, the selected session's trials.
func (m Model) View() string {
	parts := []string{
		report.HeaderLine(m.results, m.noColor),
		report.TotalsLine(m.results, m.noColor),
		m.table.View(),
	}
	if m.detail {
		parts = append(parts, m.renderDetail())
	}
	parts = append(parts, m.help())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Selected returns the session under the cursor.
func (m Model) Selected() (runner.SessionResult, bool) {
	index := m.table.Cursor()
	if index < 0 || index >= len(m.results.Sessions) {
		return runner.SessionResult{}, false
	}
	return m.results.Sessions[index], true
}

func (m Model) detailHeight() int {
	session, ok := m.Selected()
	if !m.detail || !ok {
		return 0
	}
	return len(session.Trials) + len(session.Breakdown.Diagnostics) + 1
}

func (m Model) renderDetail() string {
	session, ok := m.Selected()
	if !ok {
		return ""
	}
	lines := []string{"Session " + session.ParticipantID}
	for _, trial := range session.Trials {
		lines = append(lines, "  trial "+strconv.Itoa(trial.Trial+1)+
			": "+strconv.Itoa(trial.FreeMatches)+"/"+strconv.Itoa(len(trial.Presented))+" matched, "+
			strconv.Itoa(trial.TargetSuccesses)+" target hits | recalled: "+strings.Join(trial.Recalled, ", "))
	}
	for _, diagnostic := range session.Breakdown.Diagnostics {
		lines = append(lines, "  ! "+diagnostic.Kind+": "+diagnostic.Message)
	}
	return stylize(strings.Join(lines, "\n"), m.noColor, lipgloss.Color("244"))
}

func (m Model) help() string {
	return stylize("up/down move | enter details | q quit", m.noColor, lipgloss.Color("240"))
}

// Run shows the browser until the user quits or ctx is cancelled.
func Run(ctx context.Context, results runner.Results, in io.Reader, out io.Writer, noColor bool) error {
	program := tea.NewProgram(NewModel(results, noColor),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
