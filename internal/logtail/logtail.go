package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelUnknown Level = ""
)

// Entry is one parsed log line.
type Entry struct {
	Raw     string
	Time    string
	Level   Level
	Caller  string
	Message string
	Fields  string
}

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines := make([]string, 0, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(lines) == maxLines {
			copy(lines, lines[1:])
			lines = lines[:maxLines-1]
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// ReadEntries reads the tail of path and parses every line.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse splits a zap console or JSON line into its parts. Lines that match
// neither layout keep only Raw and Message.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		entry.Message = ""
		return entry
	}

	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		parsed := gjson.Parse(trimmed)
		entry.Time = parsed.Get("ts").String()
		entry.Level = normalizeLevel(parsed.Get("level").String())
		entry.Caller = parsed.Get("caller").String()
		entry.Message = parsed.Get("msg").String()
		var extra []string
		parsed.ForEach(func(key, value gjson.Result) bool {
			switch key.String() {
			case "ts", "level", "caller", "msg":
			default:
				extra = append(extra, key.String()+"="+value.String())
			}
			return true
		})
		entry.Fields = strings.Join(extra, " ")
		return entry
	}

	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return entry
	}
	level := normalizeLevel(parts[1])
	if level == LevelUnknown {
		return entry
	}
	entry.Time = parts[0]
	entry.Level = level
	rest := parts[2:]
	if len(rest) > 1 && strings.Contains(rest[0], ".go:") {
		entry.Caller = rest[0]
		rest = rest[1:]
	}
	entry.Message = rest[0]
	if len(rest) > 1 {
		entry.Fields = strings.Join(rest[1:], " ")
	}
	return entry
}

func normalizeLevel(value string) Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return LevelError
	}
	return LevelUnknown
}
