// Package searchtype owns the search selector state: whether schedules are
// searched by school or by region, the academic year and the grade. It also
// owns the school address shown next to the selector, which the view
// synchronizer updates through SetSchoolAddress.
package searchtype

import (
	"fmt"
	"sync"

	"github.com/five82/schoolcal/internal/schoolapi"
)

// MaxGrade is the highest selectable grade. Grade 0 means all grades.
const MaxGrade = 6

// SearchType is the selector value read by the view synchronizer.
type SearchType struct {
	Kind  schoolapi.Kind
	Year  int
	Grade int
}

// HasGrade reports whether a specific grade is selected.
func (s SearchType) HasGrade() bool {
	return s.Grade > 0
}

func (s SearchType) String() string {
	grade := "all"
	if s.HasGrade() {
		grade = fmt.Sprintf("%d", s.Grade)
	}
	return fmt.Sprintf("%s/%d/grade=%s", s.Kind, s.Year, grade)
}

// Change classifies the difference between two search types.
type Change int

const (
	ChangeNone Change = iota
	// ChangeKind means the search kind moved; year and grade are ignored.
	ChangeKind
	// ChangeFilter means only the year and/or grade moved.
	ChangeFilter
)

// Diff reports how next differs from prev.
func Diff(prev, next SearchType) Change {
	switch {
	case prev.Kind != next.Kind:
		return ChangeKind
	case prev.Year != next.Year || prev.Grade != next.Grade:
		return ChangeFilter
	default:
		return ChangeNone
	}
}

// Selector coordinates concurrent access to the selector state.
type Selector struct {
	mu      sync.RWMutex
	current SearchType
	address string
}

// New returns a Selector starting at initial. Invalid kinds fall back to
// school and out-of-range grades to all grades.
func New(initial SearchType) *Selector {
	if !initial.Kind.Valid() {
		initial.Kind = schoolapi.KindSchool
	}
	initial.Grade = clampGrade(initial.Grade)
	return &Selector{current: initial}
}

// Current returns the current search type.
func (s *Selector) Current() SearchType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetKind switches the search kind.
func (s *Selector) SetKind(kind schoolapi.Kind) (SearchType, Change) {
	if !kind.Valid() {
		return s.Current(), ChangeNone
	}
	return s.apply(func(st *SearchType) { st.Kind = kind })
}

// ToggleKind flips between school and region.
func (s *Selector) ToggleKind() (SearchType, Change) {
	return s.apply(func(st *SearchType) {
		if st.Kind == schoolapi.KindSchool {
			st.Kind = schoolapi.KindRegion
			return
		}
		st.Kind = schoolapi.KindSchool
	})
}

// ShiftYear moves the year by delta.
func (s *Selector) ShiftYear(delta int) (SearchType, Change) {
	return s.apply(func(st *SearchType) { st.Year += delta })
}

// SetYear sets the year.
func (s *Selector) SetYear(year int) (SearchType, Change) {
	return s.apply(func(st *SearchType) { st.Year = year })
}

// SetGrade sets the grade; out-of-range values select all grades.
func (s *Selector) SetGrade(grade int) (SearchType, Change) {
	return s.apply(func(st *SearchType) { st.Grade = clampGrade(grade) })
}

// CycleGrade advances the grade 0 → 1 → … → MaxGrade → 0.
func (s *Selector) CycleGrade() (SearchType, Change) {
	return s.apply(func(st *SearchType) { st.Grade = (st.Grade + 1) % (MaxGrade + 1) })
}

// SchoolAddress returns the address shown for the current selection.
func (s *Selector) SchoolAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// SetSchoolAddress replaces the address shown for the current selection.
func (s *Selector) SetSchoolAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = address
}

func (s *Selector) apply(mutate func(*SearchType)) (SearchType, Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	mutate(&s.current)
	return s.current, Diff(prev, s.current)
}

func clampGrade(grade int) int {
	if grade < 0 || grade > MaxGrade {
		return 0
	}
	return grade
}
