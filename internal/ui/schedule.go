package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/schoolcal/internal/schoolapi"
)

// monthGroup holds the events of one calendar month.
type monthGroup struct {
	Month time.Time
	Items []schoolapi.Schedule
}

// sortSchedules orders events by date; undated events keep their order at
// the end.
func sortSchedules(items []schoolapi.Schedule) []schoolapi.Schedule {
	out := append([]schoolapi.Schedule(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date(), out[j].Date()
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		}
		return a.Before(b)
	})
	return out
}

// groupByMonth buckets dated events by month in date order.
func groupByMonth(items []schoolapi.Schedule) (groups []monthGroup, undated []schoolapi.Schedule) {
	for _, item := range sortSchedules(items) {
		d := item.Date()
		if d.IsZero() {
			undated = append(undated, item)
			continue
		}
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		if n := len(groups); n > 0 && groups[n-1].Month.Equal(month) {
			groups[n-1].Items = append(groups[n-1].Items, item)
			continue
		}
		groups = append(groups, monthGroup{Month: month, Items: []schoolapi.Schedule{item}})
	}
	return groups, undated
}

// formatGrades renders the grades an event applies to, or "all".
func formatGrades(grades []int) string {
	if len(grades) == 0 {
		return "all"
	}
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ",")
}

func eventTitle(item schoolapi.Schedule) string {
	if title := item.Title(); title != "" {
		return title
	}
	return "(untitled)"
}

// renderMonthly renders events grouped under month headings.
func renderMonthly(items []schoolapi.Schedule, styles Styles, width int) string {
	if len(items) == 0 {
		return styles.MutedText.Render("No events for this selection.")
	}
	groups, undated := groupByMonth(items)

	var b strings.Builder
	heading := styles.SurfaceAlt.Bold(true).Padding(0, 1)
	if width > 0 {
		heading = heading.Width(width)
	}
	for i, group := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(heading.Render(group.Month.Format("2006-01") + "  " + group.Month.Month().String()))
		b.WriteString("\n")
		for _, item := range group.Items {
			d := item.Date()
			dayStyle := styles.AccentText
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				dayStyle = styles.WeekendText
			}
			b.WriteString("  ")
			b.WriteString(dayStyle.Render(fmt.Sprintf("%02d %s", d.Day(), d.Weekday().String()[:3])))
			b.WriteString("  ")
			b.WriteString(styles.Text.Render(eventTitle(item)))
			if grades := item.Grades(); len(grades) > 0 {
				b.WriteString(" ")
				b.WriteString(styles.FaintText.Render("[" + formatGrades(grades) + "]"))
			}
			b.WriteString("\n")
		}
	}
	if len(undated) > 0 {
		if len(groups) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(heading.Render("Undated"))
		b.WriteString("\n")
		for _, item := range undated {
			b.WriteString("  ")
			b.WriteString(styles.Text.Render(eventTitle(item)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ScheduleTable renders events as a bordered table, one row per event.
func ScheduleTable(items []schoolapi.Schedule, theme Theme, width int) string {
	styles := theme.Styles()
	headerStyle := styles.AccentText.Bold(true).Padding(0, 1)
	cellStyle := styles.Text.Padding(0, 1)
	faintCell := styles.MutedText.Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Border))).
		Headers("Date", "Event", "Grades").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return faintCell
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	for _, item := range sortSchedules(items) {
		date := "-"
		if d := item.Date(); !d.IsZero() {
			date = d.Format("2006-01-02 Mon")
		}
		t = t.Row(date, eventTitle(item), formatGrades(item.Grades()))
	}
	return t.Render()
}
