package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial", maxLines: 5, expected: expectedAll[5:]},
		{name: "exact", maxLines: 10, expected: expectedAll},
		{name: "more than exists", maxLines: 20, expected: expectedAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "none.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "console with caller and fields",
			input: "2025-03-04T09:00:00.000+0900\tINFO\tviewsync/viewsync.go:359\tselection loaded\t{\"kind\": \"school\"}",
			want: Entry{
				Time:    "2025-03-04T09:00:00.000+0900",
				Level:   LevelInfo,
				Caller:  "viewsync/viewsync.go:359",
				Message: "selection loaded",
				Fields:  `{"kind": "school"}`,
			},
		},
		{
			name:  "console without caller",
			input: "2025-03-04T09:00:00.000+0900\tWARN\tmy school lookup failed, using defaults",
			want: Entry{
				Time:    "2025-03-04T09:00:00.000+0900",
				Level:   LevelWarn,
				Message: "my school lookup failed, using defaults",
			},
		},
		{
			name:  "json",
			input: `{"level":"error","ts":"2025-03-04T09:00:00.000+0900","msg":"refetch failed","error":"timeout"}`,
			want: Entry{
				Time:    "2025-03-04T09:00:00.000+0900",
				Level:   LevelError,
				Message: "refetch failed",
				Fields:  "error=timeout",
			},
		},
		{
			name:  "plain text",
			input: "panic: something",
			want:  Entry{Message: "panic: something"},
		},
		{
			name:  "blank",
			input: "   ",
			want:  Entry{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			tt.want.Raw = tt.input
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "schoolcal.log")
	body := "t1\tDEBUG\tapi request\nt2\tERROR\tinitialization failed\n"
	if err := os.WriteFile(logPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := ReadEntries(logPath, 10)
	if err != nil {
		t.Fatalf("ReadEntries() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Level != LevelDebug || entries[1].Level != LevelError {
		t.Fatalf("ReadEntries() = %+v", entries)
	}
}
