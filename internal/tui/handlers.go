package tui

import (
	"errors"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/MikeBiancalana/datesel/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// Message Handlers
//
// These methods handle specific message types, keeping the main Update()
// function clean and focused. Each handler follows the pattern:
//
//   func (m *Model) handle<MessageType>(msg <MessageType>) (tea.Model, tea.Cmd)
//
// This makes handlers testable in isolation and easy to understand.

// handleWindowSize handles terminal resize events
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Check if terminal meets minimum dimensions
	m.terminalTooSmall = msg.Width < MinTerminalWidth || msg.Height < MinTerminalHeight

	if m.statusBar != nil {
		m.statusBar.SetWidth(msg.Width)
	}

	// Only size the picker if terminal is large enough
	if !m.terminalTooSmall && m.datePicker != nil {
		dims := CalculateLayout(msg.Width, msg.Height)
		m.datePicker.SetWidth(dims.PickerWidth)
		m.datePicker.SetVisibleRows(dims.VisibleRows)
	}

	return m, nil
}

// handleOptionsChanged applies reloaded options and, for watcher events,
// waits for the next change
func (m *Model) handleOptionsChanged(msg optionsChangedMsg) (tea.Model, tea.Cmd) {
	if msg.closed {
		logger.Debug("tui: options watcher closed")
		return m, nil
	}

	var next tea.Cmd
	if msg.watched {
		next = m.waitForOptionsChange()
	}

	if msg.err != nil {
		m.lastError = msg.err
		return m, next
	}

	cmd := m.applyOptions(msg.options.Merge(m.overrides))
	return m, tea.Batch(cmd, next)
}

// applyOptions reconfigures the picker. Options that cannot be applied
// leave the picker as it was; a committed value that cannot be rendered
// with the new options is reported but the options stay applied.
func (m *Model) applyOptions(opts config.Options) tea.Cmd {
	ctrl := m.datePicker.Controller()
	err := ctrl.Reconfigure(picker.FromConfig(opts, m.clock))

	var renderErr *picker.RenderError
	if err != nil && !errors.As(err, &renderErr) {
		logger.Warn("tui: options rejected", "error", err)
		m.lastError = err
		return nil
	}

	m.options = opts
	m.lastError = err
	m.datePicker.Refresh()
	m.successMessage = "Options reloaded"
	m.updateStatus()

	logger.Info("tui: options applied",
		"format", opts.Format,
		"start", opts.Start,
		"end", opts.End,
		"style", opts.Style,
		"strict", opts.Strict)
	return clearSuccessAfter(successMessageDuration)
}

// handleSubmit handles Enter on a closed picker holding a valid value
func (m *Model) handleSubmit(msg components.DatePickerSubmitMsg) (tea.Model, tea.Cmd) {
	logger.Debug("tui: value submitted", "value", msg.Value)
	m.confirmed = true
	return m.handleQuit()
}

// handleError handles error messages
func (m *Model) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	// Store error for display
	m.lastError = msg.err
	return m, nil
}
