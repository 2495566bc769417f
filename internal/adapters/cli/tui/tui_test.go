package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func TestMenuModel(t *testing.T) {
	opts := []MenuOption{
		{Label: "Transcribe a folder", Value: "transcribe"},
		{Label: "Start the API server", Value: "server"},
		{Label: "Doctor", Value: "doctor"},
	}

	m := press(NewMenuModel("What would you like to do?", opts), "down", "down", "up", "enter")
	if got := m.(MenuModel).Selected(); got != "server" {
		t.Errorf("Selected() = %q, want server", got)
	}

	m = press(NewMenuModel("title", opts), "3")
	if got := m.(MenuModel).Selected(); got != "doctor" {
		t.Errorf("Selected() after shortcut = %q, want doctor", got)
	}

	m = press(NewMenuModel("title", opts), "down", "q")
	if got := m.(MenuModel).Selected(); got != "" {
		t.Errorf("Selected() after quit = %q, want empty", got)
	}

	view := NewMenuModel("Pick one", opts).View()
	if !strings.Contains(view, "Pick one") || !strings.Contains(view, "> 1. Transcribe a folder") {
		t.Errorf("View() = %q", view)
	}
}

func TestCheckboxModel(t *testing.T) {
	opts := FormatOptions([]string{"xlsx", "csv", "txt", "json"}, []string{"xlsx"})
	if opts[0].Label != "Excel workbook (.xlsx)" || !opts[0].Checked || opts[1].Checked {
		t.Fatalf("FormatOptions() = %+v", opts)
	}

	m := press(NewCheckboxModel("Report formats", opts), "down", "x", "enter")
	cb := m.(CheckboxModel)
	if cb.Cancelled() {
		t.Fatal("checkbox should be confirmed")
	}
	if got := strings.Join(cb.Selected(), ","); got != "xlsx,csv" {
		t.Errorf("Selected() = %q, want xlsx,csv", got)
	}

	all := press(NewCheckboxModel("Report formats", FormatOptions([]string{"xlsx", "csv"}, []string{"xlsx"})), "a", "enter")
	if got := strings.Join(all.(CheckboxModel).Selected(), ","); got != "xlsx,csv" {
		t.Errorf("toggle all selected %q", got)
	}

	none := FormatOptions([]string{"xlsx"}, nil)
	m = press(NewCheckboxModel("Report formats", none), "enter")
	if !m.(CheckboxModel).Cancelled() {
		t.Error("enter with nothing selected should not confirm")
	}

	m = press(NewCheckboxModel("Report formats", FormatOptions([]string{"csv"}, []string{"csv"})), "esc")
	if !m.(CheckboxModel).Cancelled() || len(m.(CheckboxModel).Selected()) != 0 {
		t.Error("esc should cancel and clear the selection")
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		cursor int
		key    string
		want   int
	}{
		{0, "down", 1},
		{2, "down", 0},
		{0, "up", 2},
		{1, "k", 0},
		{0, "G", 2},
		{2, "g", 0},
		{1, "z", 1},
	}
	for _, tt := range tests {
		if got := moveCursor(tt.cursor, 3, tt.key); got != tt.want {
			t.Errorf("moveCursor(%d, %q) = %d, want %d", tt.cursor, tt.key, got, tt.want)
		}
	}
	if got := moveCursor(0, 0, "down"); got != 0 {
		t.Errorf("moveCursor on empty list = %d", got)
	}
}

func TestProgressDisplay(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressDisplay(&out, []string{"Config file", "API key", "ffmpeg"}, false)

	p.StartStep(0)
	p.CompleteStep(0, "/home/me/.audio-transcriber/config.yaml")
	p.FailStep(1, "OPENAI_API_KEY is not set")
	p.WarnStep(2, "not found")
	p.Complete(nil)

	got := out.String()
	for _, want := range []string{
		"[1/3] Config file... ✓",
		"[2/3] API key... ✗ OPENAI_API_KEY is not set",
		"[3/3] ffmpeg... !",
		"Some checks failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !p.Failed() {
		t.Error("Failed() = false")
	}
}
