package tui

import (
	"fmt"
	"strings"
	stdtime "time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/MikeBiancalana/datesel/internal/sync"
	"github.com/MikeBiancalana/datesel/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Async Closure Capture Pattern
// ==============================
// tea.Cmd closures run later, on another goroutine. Capture every model
// value a command needs BEFORE returning the closure:
//
//	capturedWatcher := m.watcher
//	return func() tea.Msg {
//	    event, ok := <-capturedWatcher.Changes()
//	    ...
//	}

// Minimum terminal dimensions
const (
	MinTerminalWidth  = 44
	MinTerminalHeight = 16
)

const pickerTitle = "Select a date"

// Model hosts one date picker. It owns the committed value the picker is
// bound to and reacts to options file changes.
type Model struct {
	value      *picker.Value
	datePicker *components.DatePicker
	statusBar  *components.StatusBar
	watcher    *sync.Watcher

	options    config.Options
	overrides  config.Options
	configPath string
	now        func() stdtime.Time

	width            int
	height           int
	terminalTooSmall bool
	showHelp         bool

	confirmed      bool
	lastError      error
	successMessage string
}

// NewModel creates a new TUI model for opts with the given initial value.
// A zero initial value starts the picker empty.
func NewModel(opts config.Options, initial stdtime.Time) (*Model, error) {
	m := &Model{
		value:     picker.NewValue(initial),
		statusBar: components.NewStatusBar(),
		options:   opts,
		now:       stdtime.Now,
	}

	ctrl, err := picker.New(picker.FromConfig(opts, m.clock), m.value)
	if err != nil {
		return nil, fmt.Errorf("failed to create picker: %w", err)
	}

	m.datePicker = components.NewDatePicker(pickerTitle, ctrl)
	m.updateStatus()
	return m, nil
}

// clock defers to m.now so tests can swap the time source after creation
func (m *Model) clock() stdtime.Time {
	return m.now()
}

// SetOptionsSource sets the options file used by reloads. Reloaded options
// are overlaid with overrides, typically the command line flags.
func (m *Model) SetOptionsSource(path string, overrides config.Options) {
	m.configPath = path
	m.overrides = overrides
}

// SetWatcher attaches an options file watcher, started by Init.
func (m *Model) SetWatcher(w *sync.Watcher) {
	m.watcher = w
}

// Options returns the options currently applied to the picker.
func (m *Model) Options() config.Options {
	return m.options
}

// Value returns the committed value binding.
func (m *Model) Value() *picker.Value {
	return m.value
}

// Picker returns the picker component.
func (m *Model) Picker() *components.DatePicker {
	return m.datePicker
}

// Confirmed reports whether the user confirmed a value before quitting.
func (m *Model) Confirmed() bool {
	return m.confirmed
}

// Result returns the confirmed value, or false if the user quit without
// confirming.
func (m *Model) Result() (stdtime.Time, bool) {
	if !m.confirmed {
		return stdtime.Time{}, false
	}
	return m.value.Value(), true
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.datePicker.Focus()}

	// Start watcher
	if m.watcher != nil {
		if err := m.watcher.Start(); err != nil {
			logger.Warn("tui: options watcher not started", "error", err)
		} else {
			cmds = append(cmds, m.waitForOptionsChange())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
// It is a simple dispatcher that routes messages to the handler methods
// in handlers.go and keyboard.go
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case optionsChangedMsg:
		return m.handleOptionsChanged(msg)

	case components.DatePickerSubmitMsg:
		return m.handleSubmit(msg)

	case clearSuccessMsg:
		m.successMessage = ""
		m.updateStatus()
		return m, nil

	case errMsg:
		return m.handleError(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	default:
		// Settle ticks, terminal focus and mouse events belong to the picker
		var cmd tea.Cmd
		m.datePicker, cmd = m.datePicker.Update(msg)
		return m, cmd
	}
}

// updateStatus refreshes the status bar from the picker configuration
func (m *Model) updateStatus() {
	ctrl := m.datePicker.Controller()
	b := ctrl.Bounds()
	start, end := "", ""
	if !b.Start.IsZero() {
		start = ctrl.Format().Format(b.Start)
	}
	if !b.End.IsZero() {
		end = ctrl.Format().Format(b.End)
	}
	m.statusBar.SetPicker(ctrl.Format().Pattern(), start, end, ctrl.Strict())
	m.statusBar.SetMessage(m.successMessage)
}

// View renders the TUI
func (m *Model) View() string {
	// Handle terminal too small case
	if m.terminalTooSmall {
		return m.terminalTooSmallView()
	}

	if m.showHelp {
		return m.helpView()
	}

	var content strings.Builder
	content.WriteString(m.datePicker.View())
	content.WriteString("\n")

	if m.lastError != nil {
		content.WriteString(errorStyle.Render("Error: "+m.lastError.Error()) + "\n")
	}

	status := m.statusBar.View()
	if m.height > 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			centerView(m.width, m.height-1, content.String()),
			status)
	}
	return content.String() + "\n" + status
}

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

// centerView places a view within given dimensions (left-aligned, top-aligned)
func centerView(width, height int, view string) string {
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, view)
}

func (m *Model) helpView() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Keyboard shortcuts") + "\n\n")

	rows := [][2]string{
		{"type", "enter a date in the configured format"},
		{"↑ / ↓", "open the list and move one day"},
		{"PgUp / PgDn", "open the list and move one week"},
		{"Enter", "accept the highlighted date, or confirm when closed"},
		{"Esc", "close the list without changing the value"},
		{"Tab", "toggle the list"},
		{"wheel", "scroll through the list"},
		{"ctrl+t", "set the value to today"},
		{"ctrl+r", "reload options from " + config.ConfigName},
		{"ctrl+s", "confirm and quit"},
		{"ctrl+c", "quit without confirming"},
		{"F1", "toggle this help"},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", row[0], row[1]))
	}
	return b.String()
}

func (m *Model) terminalTooSmallView() string {
	msg := fmt.Sprintf(
		"Terminal Too Small\n\nCurrent: %dx%d\nRequired: %dx%d or larger\n\nResize your terminal to continue.",
		m.width, m.height, MinTerminalWidth, MinTerminalHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}
