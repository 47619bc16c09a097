package schoolapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Kind selects between the school and region search modes.
type Kind string

const (
	KindSchool Kind = "school"
	KindRegion Kind = "region"
)

// Valid reports whether k is one of the known search kinds.
func (k Kind) Valid() bool {
	return k == KindSchool || k == KindRegion
}

// ParseKind normalizes user input into a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindSchool:
		return KindSchool, nil
	case KindRegion:
		return KindRegion, nil
	}
	return "", fmt.Errorf("unknown search type %q", value)
}

// Code identifies a school or region. The backend sends codes either as JSON
// strings or numbers; both decode to the same textual form. An empty Code
// means "no code".
type Code string

// UnmarshalJSON accepts strings, numbers and null.
func (c *Code) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("code must be a string or number: %w", err)
	}
	*c = Code(n.String())
	return nil
}

// String returns the code text.
func (c Code) String() string {
	return string(c)
}

// Empty reports whether no code is set.
func (c Code) Empty() bool {
	return strings.TrimSpace(string(c)) == ""
}

// MySchoolResponse mirrors /api/users/me/school.
type MySchoolResponse struct {
	Code Code `json:"code"`
}

// School is a search hit from the school endpoints.
type School struct {
	Name       string `json:"name"`
	SchoolCode Code   `json:"schoolCode"`
	AtptCode   string `json:"atptCode"`
}

// Region mirrors the data envelope of /api/regions/{id}.
type Region struct {
	Name string `json:"region_name"`
}

type regionEnvelope struct {
	Data Region `json:"data"`
}

type scheduleEnvelope struct {
	Data []Schedule `json:"data"`
}

// ScheduleQuery configures a school schedule request.
type ScheduleQuery struct {
	Code     Code
	AtptCode string
	Year     int
	Grade    int
}

// AverageQuery configures a region average schedule request. Zero Grade or
// Year are omitted from the request.
type AverageQuery struct {
	RegionName string
	Grade      int
	Year       int
}

// Schedule is a single schedule record. The record is opaque to the client:
// the raw JSON is kept verbatim and display fields are read on demand.
type Schedule struct {
	Raw json.RawMessage
}

// NewSchedule wraps a raw JSON record.
func NewSchedule(raw string) Schedule {
	return Schedule{Raw: json.RawMessage(raw)}
}

// UnmarshalJSON keeps a copy of the raw record.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw record back unchanged.
func (s Schedule) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

var (
	dateKeys  = []string{"date", "eventDate", "event_date", "AA_YMD", "start_date"}
	titleKeys = []string{"event_name", "eventName", "EVENT_NM", "title", "name"}
	gradeKeys = []string{"grades", "grade"}
)

var dateLayouts = []string{"2006-01-02", "20060102", time.RFC3339, "2006.01.02"}

// Date returns the record date, or the zero time when none can be read.
func (s Schedule) Date() time.Time {
	value := s.first(dateKeys).String()
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Title returns the event name.
func (s Schedule) Title() string {
	return strings.TrimSpace(s.first(titleKeys).String())
}

// Grades returns the grades the event applies to, if present.
func (s Schedule) Grades() []int {
	res := s.first(gradeKeys)
	if !res.Exists() {
		return nil
	}
	if res.IsArray() {
		var grades []int
		for _, g := range res.Array() {
			if n := int(g.Int()); n > 0 {
				grades = append(grades, n)
			}
		}
		return grades
	}
	if n := int(res.Int()); n > 0 {
		return []int{n}
	}
	return nil
}

func (s Schedule) first(keys []string) gjson.Result {
	if len(s.Raw) == 0 {
		return gjson.Result{}
	}
	for _, key := range keys {
		if res := gjson.GetBytes(s.Raw, key); res.Exists() && res.Type != gjson.Null {
			return res
		}
	}
	return gjson.Result{}
}
