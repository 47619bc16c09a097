package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/schoolcal/internal/schoolapi"
)

// View is the schedule display mode.
type View string

const (
	ViewMonthly View = "monthly"
	ViewList    View = "list"
)

var viewOrder = []View{ViewMonthly, ViewList}

// ParseView returns the view named by value, defaulting to monthly.
func ParseView(value string) View {
	v := View(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range viewOrder {
		if v == known {
			return v
		}
	}
	return ViewMonthly
}

// Next returns the view after v in the display cycle.
func (v View) Next() View {
	for i, known := range viewOrder {
		if known == v {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewMonthly
}

// Phase is the lifecycle of the loaded selection.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "uninitialized"
	}
}

// CurrentCode identifies the school or region whose schedule is loaded.
type CurrentCode struct {
	Code schoolapi.Code
	Kind schoolapi.Kind
}

// Snapshot represents the view state available to the UI.
type Snapshot struct {
	View        View
	SchoolName  string
	RegionName  string
	Schedules   []schoolapi.Schedule
	Current     CurrentCode
	Phase       Phase
	Initialized bool
	LastError   error
	LastUpdated time.Time
}

// SelectedValue returns the selection name that is active for kind.
func (s Snapshot) SelectedValue(kind schoolapi.Kind) string {
	if kind == schoolapi.KindSchool {
		return s.SchoolName
	}
	return s.RegionName
}

// Loading reports whether a selection is being resolved.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// Store coordinates concurrent updates to the view state.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a Store whose current code is typed as kind.
func NewStore(kind schoolapi.Kind, view View) *Store {
	s := &Store{}
	s.snapshot.Current.Kind = kind
	s.snapshot.View = view
	return s
}

// SetView changes the display mode.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.View = v
}

// SetSelectedValue writes the selection name active for kind.
func (s *Store) SetSelectedValue(kind schoolapi.Kind, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == schoolapi.KindSchool {
		s.snapshot.SchoolName = value
		return
	}
	s.snapshot.RegionName = value
}

// SetSchedules replaces the schedule list.
func (s *Store) SetSchedules(list []schoolapi.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Schedules = cloneSchedules(list)
	s.snapshot.LastUpdated = time.Now()
}

// SetCurrentCode replaces the loaded school or region code.
func (s *Store) SetCurrentCode(code CurrentCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Current = code
}

// MarkLoading enters the loading phase. The initialized gate is untouched.
func (s *Store) MarkLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseLoading
}

// MarkReady records a completed initialization. Initialized never resets.
func (s *Store) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseReady
	s.snapshot.Initialized = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
}

// MarkFailed records a failed initialization. Previously loaded data is kept.
func (s *Store) MarkFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseError
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
}

// RecordError keeps the phase and data but records err for visibility.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
}

// ClearError drops the last recorded error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = nil
}

// Snapshot returns a copy of the current view state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if snap.View == "" {
		snap.View = ViewMonthly
	}
	snap.Schedules = cloneSchedules(s.snapshot.Schedules)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSchedules(items []schoolapi.Schedule) []schoolapi.Schedule {
	if len(items) == 0 {
		return nil
	}
	dup := make([]schoolapi.Schedule, len(items))
	copy(dup, items)
	return dup
}
