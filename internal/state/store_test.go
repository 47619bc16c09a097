package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/schoolcal/internal/schoolapi"
)

func TestStore_ZeroValueDefaults(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.View != ViewMonthly {
		t.Fatalf("View = %q, want monthly", snap.View)
	}
	if snap.Phase != PhaseUninitialized || snap.Initialized {
		t.Fatalf("phase = %v initialized = %v, want uninitialized/false", snap.Phase, snap.Initialized)
	}
}

func TestStore_SelectedValueFollowsKind(t *testing.T) {
	s := NewStore(schoolapi.KindSchool, ViewMonthly)
	s.SetSelectedValue(schoolapi.KindSchool, "가락중학교")
	s.SetSelectedValue(schoolapi.KindRegion, "서울특별시 강남구")

	snap := s.Snapshot()
	if got := snap.SelectedValue(schoolapi.KindSchool); got != "가락중학교" {
		t.Fatalf("SelectedValue(school) = %q", got)
	}
	if got := snap.SelectedValue(schoolapi.KindRegion); got != "서울특별시 강남구" {
		t.Fatalf("SelectedValue(region) = %q", got)
	}
}

func TestStore_SchedulesAreCloned(t *testing.T) {
	s := NewStore(schoolapi.KindSchool, ViewList)
	before := time.Now()
	s.SetSchedules([]schoolapi.Schedule{
		schoolapi.NewSchedule(`{"event_name":"a"}`),
		schoolapi.NewSchedule(`{"event_name":"b"}`),
	})

	snap := s.Snapshot()
	if len(snap.Schedules) != 2 || snap.Schedules[0].Title() != "a" {
		t.Fatalf("Schedules = %#v, want 2 items", snap.Schedules)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Schedules[0] = schoolapi.NewSchedule(`{"event_name":"changed"}`)
	if again := s.Snapshot(); again.Schedules[0].Title() != "a" {
		t.Fatalf("Snapshot should clone schedules; got %q", again.Schedules[0].Title())
	}
}

func TestStore_PhaseTransitions(t *testing.T) {
	s := NewStore(schoolapi.KindRegion, ViewMonthly)

	s.MarkLoading()
	if snap := s.Snapshot(); !snap.Loading() || snap.Initialized {
		t.Fatalf("after MarkLoading: %+v", snap)
	}

	origErr := errors.New("boom")
	s.MarkFailed(origErr)
	snap := s.Snapshot()
	if snap.Phase != PhaseError || snap.Initialized {
		t.Fatalf("after MarkFailed: phase=%v initialized=%v", snap.Phase, snap.Initialized)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want wrapping boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}

	s.MarkReady()
	snap = s.Snapshot()
	if snap.Phase != PhaseReady || !snap.Initialized || snap.LastError != nil {
		t.Fatalf("after MarkReady: %+v", snap)
	}

	// Initialized is a one-way gate.
	s.MarkLoading()
	s.MarkFailed(errors.New("later"))
	if snap = s.Snapshot(); !snap.Initialized {
		t.Fatalf("Initialized reset after later failure")
	}

	s.RecordError(errors.New("refetch"))
	if snap = s.Snapshot(); snap.Phase != PhaseError || snap.LastError == nil {
		t.Fatalf("RecordError changed phase or dropped error: %+v", snap)
	}
	s.ClearError()
	if snap = s.Snapshot(); snap.LastError != nil {
		t.Fatalf("ClearError left %v", snap.LastError)
	}
}

func TestView_ParseAndCycle(t *testing.T) {
	if ParseView(" LIST ") != ViewList {
		t.Fatalf("ParseView(LIST) != list")
	}
	if ParseView("weekly") != ViewMonthly {
		t.Fatalf("unknown view should default to monthly")
	}
	if ViewMonthly.Next() != ViewList || ViewList.Next() != ViewMonthly {
		t.Fatalf("view cycle broken")
	}
	if PhaseReady.String() != "ready" || Phase(99).String() != "uninitialized" {
		t.Fatalf("Phase.String mismatch")
	}
}
