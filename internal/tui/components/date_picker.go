package components

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/MikeBiancalana/datesel/internal/validate"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	datePickerBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(1, 2)

	datePickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	datePickerOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	datePickerActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("39")).
				Bold(true)

	datePickerPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("40")).
				Italic(true)

	datePickerButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	datePickerDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("238"))

	datePickerErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Italic(true)

	datePickerHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// DefaultVisibleRows is the height of the dropdown window
const DefaultVisibleRows = 7

// settleMsg delivers a deferred picker action back to the picker that
// scheduled it
type settleMsg struct {
	pickerID string
	pending  picker.Pending
}

// DatePickerSubmitMsg is sent when Enter is pressed on a closed picker
// holding a valid value
type DatePickerSubmitMsg struct {
	Value time.Time
}

// DatePicker is a TUI component for selecting a date from a bounded range
type DatePicker struct {
	ctrl        *picker.Controller
	textInput   textinput.Model
	title       string
	width       int
	visibleRows int
	err         error
}

// NewDatePicker creates a new date picker component driven by ctrl
func NewDatePicker(title string, ctrl *picker.Controller) *DatePicker {
	ti := textinput.New()
	ti.Placeholder = ctrl.Format().Pattern()
	ti.CharLimit = 64
	ti.Width = 30
	ti.SetValue(ctrl.Text())

	return &DatePicker{
		ctrl:        ctrl,
		textInput:   ti,
		title:       title,
		width:       40,
		visibleRows: DefaultVisibleRows,
	}
}

// Controller returns the underlying picker controller
func (dp *DatePicker) Controller() *picker.Controller {
	return dp.ctrl
}

// GetValue returns the current input text
func (dp *DatePicker) GetValue() string {
	return dp.textInput.Value()
}

// SetWidth sets the width of the date picker
func (dp *DatePicker) SetWidth(width int) {
	dp.width = width
}

// SetVisibleRows sets the number of dropdown rows shown at once
func (dp *DatePicker) SetVisibleRows(rows int) {
	dp.visibleRows = max(rows, 1)
}

// Err returns the last error raised while handling input
func (dp *DatePicker) Err() error {
	return dp.err
}

// Focus focuses the text field; the dropdown opens once focus settles
func (dp *DatePicker) Focus() tea.Cmd {
	cmd := dp.textInput.Focus()
	return tea.Batch(cmd, dp.schedule(dp.ctrl.Focus()))
}

// Blur removes focus; the dropdown closes and the text is validated once
// focus settles
func (dp *DatePicker) Blur() tea.Cmd {
	dp.textInput.Blur()
	return dp.schedule(dp.ctrl.Blur())
}

// Focused reports whether the text field has focus
func (dp *DatePicker) Focused() bool {
	return dp.textInput.Focused()
}

// schedule turns a pending picker action into a tick. Capture the id and
// pending value before creating the closure.
func (dp *DatePicker) schedule(p picker.Pending) tea.Cmd {
	if p.None() {
		return nil
	}
	capturedID := dp.ctrl.ID()
	capturedPending := p
	return tea.Tick(p.Delay, func(time.Time) tea.Msg {
		return settleMsg{pickerID: capturedID, pending: capturedPending}
	})
}

// Update handles Bubble Tea messages
func (dp *DatePicker) Update(msg tea.Msg) (*DatePicker, tea.Cmd) {
	switch msg := msg.(type) {
	case settleMsg:
		if msg.pickerID == dp.ctrl.ID() {
			dp.ctrl.Fire(msg.pending)
			dp.syncText()
		}
		return dp, nil

	case tea.FocusMsg:
		return dp, dp.Focus()

	case tea.BlurMsg:
		return dp, dp.Blur()

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return dp, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			dp.ctrl.Wheel(1)
		case tea.MouseButtonWheelDown:
			dp.ctrl.Wheel(-1)
		}
		dp.syncText()
		return dp, nil

	case tea.KeyMsg:
		if !dp.textInput.Focused() {
			return dp, nil
		}
		return dp.handleKey(msg)
	}

	return dp, nil
}

func (dp *DatePicker) handleKey(msg tea.KeyMsg) (*DatePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		wasOpen := dp.ctrl.IsOpen()
		dp.setErr(dp.ctrl.HandleKey(picker.KeyEnter))
		dp.syncText()
		if !wasOpen && dp.ctrl.Validity().OK() && !dp.ctrl.Value().IsZero() {
			value := dp.ctrl.Value()
			return dp, func() tea.Msg { return DatePickerSubmitMsg{Value: value} }
		}
		return dp, nil

	case tea.KeyEsc:
		dp.setErr(dp.ctrl.HandleKey(picker.KeyEscape))
		return dp, nil

	case tea.KeyPgUp:
		dp.setErr(dp.ctrl.HandleKey(picker.KeyPageUp))
		dp.syncText()
		return dp, nil

	case tea.KeyPgDown:
		dp.setErr(dp.ctrl.HandleKey(picker.KeyPageDown))
		dp.syncText()
		return dp, nil

	case tea.KeyUp:
		dp.setErr(dp.ctrl.HandleKey(picker.KeyUp))
		dp.syncText()
		return dp, nil

	case tea.KeyDown:
		dp.setErr(dp.ctrl.HandleKey(picker.KeyDown))
		dp.syncText()
		return dp, nil

	case tea.KeyTab:
		if dp.ctrl.Style() != picker.StyleDropdown {
			return dp, nil
		}
		return dp, dp.schedule(dp.ctrl.Toggle())
	}

	// Update text input and feed the typed text to the picker
	var cmd tea.Cmd
	dp.textInput, cmd = dp.textInput.Update(msg)
	if dp.textInput.Value() != dp.ctrl.Text() {
		dp.ctrl.SetText(dp.textInput.Value())
	}
	return dp, cmd
}

func (dp *DatePicker) setErr(err error) {
	dp.err = err
	if err != nil {
		logger.Error("date picker: render failed", "picker", dp.ctrl.ID(), "error", err)
	}
}

// Refresh re-reads the picker after a host-side change such as a new
// committed value or reconfigured options.
func (dp *DatePicker) Refresh() {
	dp.textInput.Placeholder = dp.ctrl.Format().Pattern()
	dp.err = dp.ctrl.Err()
	dp.syncText()
}

// syncText copies the picker's canonical text into the text field
func (dp *DatePicker) syncText() {
	if dp.textInput.Value() != dp.ctrl.Text() {
		dp.textInput.SetValue(dp.ctrl.Text())
		dp.textInput.CursorEnd()
	}
}

// window returns the range of option indexes to display so that the
// active index stays in view
func (dp *DatePicker) window() (int, int) {
	total := len(dp.ctrl.Options())
	rows := min(dp.visibleRows, total)
	active := max(dp.ctrl.ActiveIndex(), 0)

	start := active - rows/2
	start = max(0, min(start, total-rows))
	return start, start + rows
}

// errorMessages renders the cleared validity flags
func (dp *DatePicker) errorMessages() []string {
	v := dp.ctrl.Validity()
	var msgs []string
	if !v.Time {
		msgs = append(msgs, fmt.Sprintf("Invalid date, expected %s", dp.ctrl.Format().Pattern()))
	}
	if !v.Bounds {
		b := dp.ctrl.Bounds()
		msgs = append(msgs, fmt.Sprintf("Date must be between %s and %s",
			dp.ctrl.Format().Format(b.Start), dp.ctrl.Format().Format(b.End)))
	}
	if !v.Start {
		msgs = append(msgs, capitalize(validate.ErrInvalidStart.Error()))
	}
	if !v.End {
		msgs = append(msgs, capitalize(validate.ErrInvalidEnd.Error()))
	}

	err := dp.err
	if err == nil {
		err = dp.ctrl.Err()
	}
	var renderErr *picker.RenderError
	if errors.As(err, &renderErr) {
		msgs = append(msgs, renderErr.Error())
	}
	return msgs
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// View renders the date picker
func (dp *DatePicker) View() string {
	var content strings.Builder

	// Title
	content.WriteString(datePickerTitleStyle.Render(dp.title) + "\n\n")

	// Input field, with buttons in sequential style
	if dp.ctrl.Style() == picker.StyleSequential {
		content.WriteString(dp.button("[-]", dp.ctrl.CanDecrement()) + " ")
		content.WriteString(dp.textInput.View())
		content.WriteString(" " + dp.button("[+]", dp.ctrl.CanIncrement()) + "\n")
	} else {
		content.WriteString("Date: " + dp.textInput.View() + "\n")
	}

	// Dropdown
	if dp.ctrl.IsOpen() {
		content.WriteString("\n")
		start, end := dp.window()
		options := dp.ctrl.Options()
		for i := start; i < end; i++ {
			label := dp.ctrl.Label(options[i])
			if i == dp.ctrl.ActiveIndex() {
				content.WriteString(datePickerActiveStyle.Render("> "+label) + "\n")
			} else {
				content.WriteString(datePickerOptionStyle.Render("  "+label) + "\n")
			}
		}
	}

	// Preview of the open dropdown, or of the stepped value in sequential style
	if dp.ctrl.IsOpen() || dp.ctrl.Style() == picker.StyleSequential {
		if h := dp.ctrl.Highlighted(); !h.IsZero() {
			loc := dp.ctrl.Format().Location()
			desc := datefmt.Describe(h.In(loc), dp.ctrl.Now().In(loc))
			content.WriteString(datePickerPreviewStyle.Render(fmt.Sprintf("→ %s (%s)", dp.ctrl.Format().Format(h), desc)) + "\n")
		}
	}

	// Errors
	for _, msg := range dp.errorMessages() {
		content.WriteString(datePickerErrorStyle.Render("✗ "+msg) + "\n")
	}

	// Help text
	content.WriteString("\n")
	content.WriteString(datePickerHelpStyle.Render(dp.helpText()))

	// Wrap in box
	return datePickerBoxStyle.Width(dp.width).Render(content.String())
}

func (dp *DatePicker) button(label string, enabled bool) string {
	if enabled {
		return datePickerButtonStyle.Render(label)
	}
	return datePickerDisabledStyle.Render(label)
}

func (dp *DatePicker) helpText() string {
	if dp.ctrl.Disabled() {
		return "disabled"
	}
	if dp.ctrl.Style() == picker.StyleSequential {
		return "↑/↓: day  PGUP/PGDN: week  ENTER: confirm"
	}
	if dp.ctrl.IsOpen() {
		return "↑/↓: day  PGUP/PGDN: week  ENTER: accept  ESC: close"
	}
	return "TAB: open list  ↑/↓: open and step  ENTER: confirm"
}
