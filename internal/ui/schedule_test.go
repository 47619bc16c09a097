package ui

import (
	"strings"
	"testing"

	"github.com/five82/schoolcal/internal/schoolapi"
)

func schedules(raw ...string) []schoolapi.Schedule {
	out := make([]schoolapi.Schedule, len(raw))
	for i, r := range raw {
		out[i] = schoolapi.NewSchedule(r)
	}
	return out
}

func TestGroupByMonth(t *testing.T) {
	items := schedules(
		`{"date":"2025-04-28","event_name":"중간고사"}`,
		`{"event_name":"미정"}`,
		`{"date":"2025-03-04","event_name":"입학식"}`,
		`{"date":"2025-03-21","event_name":"학부모 총회"}`,
	)

	groups, undated := groupByMonth(items)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Month.Format("2006-01") != "2025-03" || len(groups[0].Items) != 2 {
		t.Fatalf("first group = %s with %d items", groups[0].Month.Format("2006-01"), len(groups[0].Items))
	}
	if groups[0].Items[0].Title() != "입학식" {
		t.Fatalf("first event = %q, want 입학식", groups[0].Items[0].Title())
	}
	if len(undated) != 1 || undated[0].Title() != "미정" {
		t.Fatalf("undated = %v", undated)
	}
}

func TestFormatGrades(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{in: nil, want: "all"},
		{in: []int{3}, want: "3"},
		{in: []int{1, 2}, want: "1,2"},
	}
	for _, tt := range tests {
		if got := formatGrades(tt.in); got != tt.want {
			t.Errorf("formatGrades(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMonthly(t *testing.T) {
	styles := GetTheme("Slate").Styles()
	if got := renderMonthly(nil, styles, 60); !strings.Contains(got, "No events") {
		t.Fatalf("renderMonthly(nil) = %q", got)
	}

	got := renderMonthly(schedules(
		`{"date":"2025-03-08","event_name":"토요 행사","grades":[1,2]}`,
		`{"title":"날짜 없음"}`,
	), styles, 60)
	for _, want := range []string{"2025-03", "March", "08 Sat", "토요 행사", "[1,2]", "Undated", "날짜 없음"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderMonthly output missing %q:\n%s", want, got)
		}
	}
}

func TestScheduleTable(t *testing.T) {
	got := ScheduleTable(schedules(
		`{"date":"2025-07-18","event_name":"방학식"}`,
		`{"AA_YMD":"20250304","EVENT_NM":"입학식","grade":1}`,
	), GetTheme("Dracula"), 0)

	for _, want := range []string{"Date", "Event", "Grades", "2025-03-04 Tue", "입학식", "방학식", "all"} {
		if !strings.Contains(got, want) {
			t.Errorf("ScheduleTable output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "입학식") > strings.Index(got, "방학식") {
		t.Errorf("rows not sorted by date:\n%s", got)
	}
}
