package schoolapi

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCode_UnmarshalStringsNumbersAndNull(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Code
	}{
		{"string", `{"code":"7130165"}`, "7130165"},
		{"padded string", `{"code":"  42 "}`, "42"},
		{"number", `{"code":1}`, "1"},
		{"null", `{"code":null}`, ""},
		{"missing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MySchoolResponse
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if got.Code != tt.want {
				t.Fatalf("code = %q, want %q", got.Code, tt.want)
			}
		})
	}

	var bad MySchoolResponse
	if err := json.Unmarshal([]byte(`{"code":true}`), &bad); err == nil {
		t.Fatalf("Unmarshal of bool code returned nil error")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Region "); err != nil || k != KindRegion {
		t.Fatalf("ParseKind(Region) = %q, %v", k, err)
	}
	if k, err := ParseKind("school"); err != nil || k != KindSchool {
		t.Fatalf("ParseKind(school) = %q, %v", k, err)
	}
	if _, err := ParseKind("district"); err == nil {
		t.Fatalf("ParseKind(district) returned nil error")
	}
	if Kind("").Valid() {
		t.Fatalf("empty kind reported valid")
	}
}

func TestSchedule_KeepsRawRecord(t *testing.T) {
	raw := `{"AA_YMD":"20250304","EVENT_NM":"입학식","extra":{"nested":true}}`
	var list []Schedule
	if err := json.Unmarshal([]byte("["+raw+"]"), &list); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if string(list[0].Raw) != raw {
		t.Fatalf("Raw = %s, want %s", list[0].Raw, raw)
	}
	out, err := json.Marshal(list[0])
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("Marshal = %s, want verbatim record", out)
	}
}

func TestSchedule_DisplayFields(t *testing.T) {
	s := NewSchedule(`{"date":"2025-07-18","event_name":" 방학식 ","grades":[1,2,0]}`)
	if got := s.Date(); got.Year() != 2025 || got.Month() != time.July || got.Day() != 18 {
		t.Fatalf("Date = %v, want 2025-07-18", got)
	}
	if s.Title() != "방학식" {
		t.Fatalf("Title = %q, want 방학식", s.Title())
	}
	if got := s.Grades(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Grades = %v, want [1 2]", got)
	}

	neis := NewSchedule(`{"AA_YMD":"20250304","EVENT_NM":"입학식","grade":3}`)
	if neis.Date().IsZero() || neis.Title() != "입학식" {
		t.Fatalf("NEIS-style record not read: date=%v title=%q", neis.Date(), neis.Title())
	}
	if got := neis.Grades(); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("Grades = %v, want [3]", got)
	}

	empty := Schedule{}
	if !empty.Date().IsZero() || empty.Title() != "" || empty.Grades() != nil {
		t.Fatalf("empty schedule should have zero display fields")
	}
}
