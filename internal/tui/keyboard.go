package tui

import (
	"errors"

	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/MikeBiancalana/datesel/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

// Keyboard Handlers
//
// Application shortcuts use control keys so that every printable key
// reaches the picker's text field.

var errNoValue = errors.New("no date selected")

// handleKeyPress is the main keyboard input dispatcher
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay swallows keys until it is closed
	if m.showHelp {
		switch msg.Type {
		case tea.KeyF1, tea.KeyEsc:
			m.showHelp = false
		case tea.KeyCtrlC:
			return m.handleQuit()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m.handleQuit()
	case tea.KeyCtrlS:
		return m.handleConfirm()
	case tea.KeyCtrlT:
		return m.handleToday()
	case tea.KeyCtrlR:
		return m, m.reloadOptions()
	case tea.KeyF1:
		m.showHelp = true
		return m, nil
	}

	// Everything else goes to the picker
	m.lastError = nil
	var cmd tea.Cmd
	m.datePicker, cmd = m.datePicker.Update(msg)
	return m, cmd
}

// handleQuit handles quit operations
func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	// Stop watcher on quit
	if m.watcher != nil {
		m.watcher.Stop()
	}
	return m, tea.Quit
}

// handleConfirm finishes editing as if the field lost focus, then quits
// if the result is valid
func (m *Model) handleConfirm() (tea.Model, tea.Cmd) {
	ctrl := m.datePicker.Controller()
	ctrl.Fire(ctrl.Blur())
	m.datePicker.Refresh()

	var err error
	switch {
	case ctrl.Text() == "" && ctrl.Value().IsZero():
		err = errNoValue
	case ctrl.Validity().Err() != nil:
		err = ctrl.Validity().Err()
	case ctrl.Value().IsZero():
		err = errNoValue
	}
	if err != nil {
		m.lastError = err
		return m, m.datePicker.Focus()
	}

	m.confirmed = true
	logger.Debug("tui: value confirmed", "value", ctrl.Value())
	return m.handleQuit()
}

// handleToday sets the committed value to the start of today. This is a
// host-side change: the picker re-renders from the new value.
func (m *Model) handleToday() (tea.Model, tea.Cmd) {
	ctrl := m.datePicker.Controller()
	loc := ctrl.Format().Location()

	today, err := datefmt.ParseRelative("today", m.now().In(loc))
	if err != nil {
		m.lastError = err
		return m, nil
	}

	m.value.SetValue(today)
	m.datePicker.Refresh()
	m.lastError = ctrl.Err()
	return m, nil
}
