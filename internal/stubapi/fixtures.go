package stubapi

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed fixtures.toml
var defaultFixtures []byte

// Fixtures is the data set served by the stub backend.
type Fixtures struct {
	Schools   []School   `toml:"schools"`
	Regions   []Region   `toml:"regions"`
	Users     []User     `toml:"users"`
	Schedules []Schedule `toml:"schedules"`
}

// School is a school fixture.
type School struct {
	Code     string `toml:"code"`
	AtptCode string `toml:"atpt_code"`
	Name     string `toml:"name"`
}

// Region is a region fixture.
type Region struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// User maps a user id to saved selections.
type User struct {
	ID     string `toml:"id"`
	School string `toml:"school"`
	Region string `toml:"region"`
}

// Schedule is one event belonging to a school code or a region name.
type Schedule struct {
	School    string `toml:"school"`
	Region    string `toml:"region"`
	Date      string `toml:"date"`
	EventName string `toml:"event_name"`
	Grades    []int  `toml:"grades"`
}

// DefaultFixtures returns the built-in data set.
func DefaultFixtures() (*Fixtures, error) {
	return parseFixtures(defaultFixtures)
}

// LoadFixtures reads a fixture file. An empty path returns the built-in set.
func LoadFixtures(path string) (*Fixtures, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := toml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

func (f *Fixtures) schoolByCode(code string) (School, bool) {
	for _, s := range f.Schools {
		if s.Code == code {
			return s, true
		}
	}
	return School{}, false
}

func (f *Fixtures) schoolsByName(name string) []School {
	var hits []School
	for _, s := range f.Schools {
		if strings.Contains(s.Name, name) {
			hits = append(hits, s)
		}
	}
	return hits
}

func (f *Fixtures) regionByID(id string) (Region, bool) {
	for _, r := range f.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

func (f *Fixtures) user(id string) (User, bool) {
	for _, u := range f.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// filter selects schedules by owner and optional year and grade. Zero year
// or grade matches everything.
func (f *Fixtures) filter(match func(Schedule) bool, year, grade int) []Schedule {
	out := []Schedule{}
	for _, s := range f.Schedules {
		if !match(s) {
			continue
		}
		if year > 0 && !strings.HasPrefix(s.Date, strconv.Itoa(year)) {
			continue
		}
		if grade > 0 && len(s.Grades) > 0 && !containsGrade(s.Grades, grade) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsGrade(grades []int, grade int) bool {
	for _, g := range grades {
		if g == grade {
			return true
		}
	}
	return false
}
