package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
	tea "github.com/charmbracelet/bubbletea"
)

func januaryOptions() config.Options {
	return config.Options{
		Format:   "YYYY-MM-DD",
		Timezone: "UTC",
		Start:    "2023-01-01",
		End:      "2023-01-31",
		Style:    config.StyleDropdown,
	}
}

func day(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}

func newTestModel(t *testing.T, opts config.Options, initial time.Time) *Model {
	t.Helper()
	m, err := NewModel(opts, initial)
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	m.now = func() time.Time { return day(20).Add(9 * time.Hour) }
	return m
}

func TestMinimumTerminalSizeConstants(t *testing.T) {
	if MinTerminalWidth != 44 {
		t.Errorf("Expected MinTerminalWidth to be 44, got %d", MinTerminalWidth)
	}

	if MinTerminalHeight != 16 {
		t.Errorf("Expected MinTerminalHeight to be 16, got %d", MinTerminalHeight)
	}
}

func TestTerminalTooSmallViewContent(t *testing.T) {
	// Create a minimal model just for testing the view
	model := &Model{
		terminalTooSmall: true,
		width:            30,
		height:           10,
	}

	view := model.View()

	expectedTexts := []string{
		"Terminal Too Small",
		"Current: 30x10",
		"Required: 44x16 or larger",
		"Resize your terminal",
	}

	for _, expected := range expectedTexts {
		if !strings.Contains(view, expected) {
			t.Errorf("Expected view to contain '%s', but got view: %s", expected, view)
		}
	}
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, januaryOptions(), day(15))

	if got := m.Picker().GetValue(); got != "2023-01-15" {
		t.Errorf("Expected picker text 2023-01-15, got %q", got)
	}
	if !m.Value().Value().Equal(day(15)) {
		t.Errorf("Expected value 2023-01-15, got %v", m.Value().Value())
	}
	if _, ok := m.Result(); ok {
		t.Error("Expected no result before confirmation")
	}
	if m.Options().Format != "YYYY-MM-DD" {
		t.Errorf("Expected options to be kept, got %+v", m.Options())
	}
}

func TestNewModelClampsInitialValue(t *testing.T) {
	m := newTestModel(t, januaryOptions(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	if !m.Value().Value().Equal(day(31)) {
		t.Errorf("Expected initial value clamped to 2023-01-31, got %v", m.Value().Value())
	}
}

func TestNewModelRejectsInvalidOptions(t *testing.T) {
	opts := januaryOptions()
	opts.Style = "wheel"

	if _, err := NewModel(opts, time.Time{}); err == nil {
		t.Error("Expected error for invalid style")
	}

	opts = januaryOptions()
	opts.Timezone = "Mars/Olympus_Mons"
	if _, err := NewModel(opts, time.Time{}); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestInitFocusesPicker(t *testing.T) {
	m := newTestModel(t, januaryOptions(), day(15))

	if cmd := m.Init(); cmd == nil {
		t.Error("Expected Init to return a command")
	}
	if !m.Picker().Focused() {
		t.Error("Expected picker to be focused after Init")
	}
}

func TestUpdateForwardsFocusMessages(t *testing.T) {
	m := newTestModel(t, januaryOptions(), day(15))

	m.Update(tea.FocusMsg{})
	if !m.Picker().Controller().Focused() {
		t.Error("Expected terminal focus to reach the picker")
	}

	m.Update(tea.BlurMsg{})
	if m.Picker().Controller().Focused() {
		t.Error("Expected terminal blur to reach the picker")
	}
}

func TestViewShowsPickerAndStatus(t *testing.T) {
	m := newTestModel(t, januaryOptions(), day(15))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()
	for _, expected := range []string{pickerTitle, "2023-01-15", "2023-01-01 – 2023-01-31", "ctrl+s:confirm"} {
		if !strings.Contains(view, expected) {
			t.Errorf("Expected view to contain %q, got: %s", expected, view)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, januaryOptions(), day(15))

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp {
		t.Fatal("Expected help to be shown after F1")
	}
	if !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Error("Expected help view")
	}

	// Keys other than F1/Esc are swallowed
	m.Picker().Focus()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Picker().GetValue() != "2023-01-15" {
		t.Errorf("Expected help to swallow typing, got %q", m.Picker().GetValue())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("Expected help to close on Esc")
	}
}
