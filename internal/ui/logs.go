package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/schoolcal/internal/logtail"
)

const logTailLines = 500

type logBatchMsg []logtail.Entry

type logErrorMsg struct{ err error }

func fetchLogsCmd(path string) tea.Cmd {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, logTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logBatchMsg(entries)
	}
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	m.logEntries = []logtail.Entry(msg)
	m.logErr = nil
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.logViewport.Width = m.width
	m.logViewport.Height = m.contentHeight()
	m.logViewport.SetContent(m.renderLogContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render("log unavailable: " + m.logErr.Error())
	}
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("Log is empty: " + m.logPath)
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, renderLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func renderLogEntry(e logtail.Entry, styles Styles) string {
	if e.Level == logtail.LevelUnknown {
		return styles.MutedText.Render(e.Raw)
	}
	var b strings.Builder
	if e.Time != "" {
		b.WriteString(styles.FaintText.Render(e.Time))
		b.WriteString(" ")
	}
	b.WriteString(styles.LevelStyle(e.Level).Render(string(e.Level)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	if e.Fields != "" {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(e.Fields))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(m.width).
		Height(m.contentHeight()).
		Render(m.logViewport.View())
}

// handleLogsKey processes scrolling keys in the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up, m.keys.PageUp, m.keys.Top):
		m.logFollow = false
	}
	return m, m.scroll(&m.logViewport, msg)
}

func (m Model) scroll(vp *viewport.Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		vp.ViewUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.ViewDown()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	}
	return nil
}
