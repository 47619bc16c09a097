package ui

import (
	"testing"

	"github.com/five82/schoolcal/internal/logtail"
	"github.com/five82/schoolcal/internal/state"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 || names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Dracula": "Slate",
		"Slate":   "Dracula",
		"Unknown": "Dracula",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme_FallsBackToDracula(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula", got)
	}
}

func TestStyles_PhaseAndLevelColors(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	if got := styles.PhaseStyle(state.PhaseError).GetBackground(); got != styles.DangerText.GetForeground() {
		t.Fatalf("error phase background = %v, want danger color", got)
	}
	if got := styles.PhaseStyle(state.PhaseReady).GetBackground(); got != styles.SuccessText.GetForeground() {
		t.Fatalf("ready phase background = %v, want success color", got)
	}
	if got := styles.LevelStyle(logtail.LevelWarn).GetForeground(); got != styles.WarningText.GetForeground() {
		t.Fatalf("warn level color = %v, want warning color", got)
	}
	if got := styles.LevelStyle(logtail.LevelUnknown).GetForeground(); got != styles.MutedText.GetForeground() {
		t.Fatalf("unknown level color = %v, want muted color", got)
	}
}
