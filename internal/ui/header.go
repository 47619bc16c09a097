package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/schoolcal/internal/schoolapi"
	"github.com/five82/schoolcal/internal/searchtype"
	"github.com/five82/schoolcal/internal/state"
)

// renderHeader renders the status bar: selection, filters and load phase.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	st := m.current()

	name := m.snapshot.SelectedValue(st.Kind)
	if name == "" {
		name = "-"
	}

	parts := []string{
		bg.Render("schoolcal", styles.Logo),
		bg.Render(kindLabel(st.Kind), styles.AccentText.Bold(true)),
		bg.Render(truncate(name, 30), styles.Text.Bold(true)),
		bg.Render(fmt.Sprintf("%d", st.Year), styles.InfoText),
		bg.Render(gradeLabel(st), styles.MutedText),
		styles.PhaseStyle(m.snapshot.Phase).Render(strings.ToUpper(m.snapshot.Phase.String())),
	}
	if st.Kind == schoolapi.KindRegion && m.selector != nil {
		if address := m.selector.SchoolAddress(); address != "" {
			parts = append(parts, bg.Render(truncate(address, 30), styles.FaintText))
		}
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts,
			bg.Render("<"+h.Key+">", styles.WarningText)+bg.Spaces(1)+bg.Render(h.Desc, styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderFooter shows the view name and the last refetch error, if any.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	label := string(m.snapshot.View)
	if m.showLogs {
		label = "log"
		if m.logFollow {
			label += " (follow)"
		}
	}
	parts := []string{
		bg.Render(label, styles.AccentText),
		bg.Render(fmt.Sprintf("%d events", len(m.snapshot.Schedules)), styles.MutedText),
	}
	if m.snapshot.LastError != nil && m.snapshot.Phase != state.PhaseError {
		parts = append(parts, bg.Render("error: "+truncate(m.snapshot.LastError.Error(), 80), styles.DangerText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderPlaceholder is shown until the first selection loads.
func (m Model) renderPlaceholder() string {
	styles := m.theme.Styles()

	var body string
	if m.snapshot.Phase == state.PhaseError {
		msg := "unknown error"
		if m.snapshot.LastError != nil {
			msg = m.snapshot.LastError.Error()
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			styles.DangerText.Render("Could not load the schedule"),
			"",
			styles.Text.Width(min(60, max(20, m.width-10))).Render(msg),
			"",
			styles.MutedText.Render("Press "+keyHint(m.keys.Retry)+" to retry or "+keyHint(m.keys.ViewLogs)+" for the log."),
		)
		body = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(m.theme.Danger)).
			Padding(1, 2).
			Render(body)
	} else {
		body = m.spinner.View() + " " + styles.Text.Render("Loading schedule...")
	}

	return lipgloss.Place(m.width, max(1, m.height-3), lipgloss.Center, lipgloss.Center, body)
}

func keyHint(b key.Binding) string {
	return b.Help().Key
}

func kindLabel(kind schoolapi.Kind) string {
	if kind == schoolapi.KindRegion {
		return "REGION"
	}
	return "SCHOOL"
}

func gradeLabel(st searchtype.SearchType) string {
	if !st.HasGrade() {
		return "all grades"
	}
	return fmt.Sprintf("grade %d", st.Grade)
}

// truncate shortens s to max runes, adding an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
