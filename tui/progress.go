// Package tui renders a live progress view for a dispatch run using Bubble
// Tea. The dispatcher feeds it one OutcomeMsg per completed task via
// Program.Send; the view shows a progress bar, success/failure counts and the
// most recent targets. A FinishedMsg carries the end-of-run summary and quits
// the program.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	barWidth      = 40
	recentHistory = 5
)

// OutcomeMsg reports one completed task.
type OutcomeMsg struct {
	Done   int
	Total  int
	Target string
	OK     bool
}

// FinishedMsg tells the view the run is over. Summary is rendered once before
// the program quits.
type FinishedMsg struct {
	Summary string
}

// recentOutcome is one line of the recent-targets list.
type recentOutcome struct {
	target string
	ok     bool
}

// Model holds the state of the progress view.
type Model struct {
	action    string
	total     int
	done      int
	succeeded int
	failed    int
	recent    []recentOutcome
	summary   string
	finished  bool
	aborted   bool
}

// NewModel creates the initial progress model for a run of total targets.
func NewModel(action string, total int) Model {
	return Model{
		action: action,
		total:  total,
	}
}

// Aborted reports whether the user quit the view before the run finished.
func (m Model) Aborted() bool { return m.aborted }

// Init is the first command run when the program starts.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OutcomeMsg:
		m.done = msg.Done
		m.total = msg.Total
		if msg.OK {
			m.succeeded++
		} else {
			m.failed++
		}
		m.recent = append(m.recent, recentOutcome{target: msg.Target, ok: msg.OK})
		if len(m.recent) > recentHistory {
			m.recent = m.recent[len(m.recent)-recentHistory:]
		}
		return m, nil

	case FinishedMsg:
		m.finished = true
		m.summary = msg.Summary
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the progress bar, counters and recent outcomes.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("instagram-botter %s %s", SymbolRunning, m.action)))
	b.WriteString("\n\n")

	filled := 0
	if m.total > 0 {
		filled = m.done * barWidth / m.total
	}
	bar := BarFilledStyle.Render(strings.Repeat(barFilledChar, filled)) +
		BarEmptyStyle.Render(strings.Repeat(barEmptyChar, barWidth-filled))
	b.WriteString(fmt.Sprintf("%s %d/%d\n", bar, m.done, m.total))

	b.WriteString(fmt.Sprintf("%s %d  %s %d\n\n",
		SuccessStyle.Render(SymbolSuccess), m.succeeded,
		FailureStyle.Render(SymbolFailure), m.failed))

	for _, r := range m.recent {
		symbol := SuccessStyle.Render(SymbolSuccess)
		if !r.ok {
			symbol = FailureStyle.Render(SymbolFailure)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", MutedStyle.Render(SymbolListItem), symbol, r.target))
	}

	if m.finished && m.summary != "" {
		b.WriteString("\n")
		b.WriteString(SummaryStyle.Render(m.summary))
		b.WriteString("\n")
	}

	return b.String()
}
