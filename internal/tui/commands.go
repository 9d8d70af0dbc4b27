package tui

import (
	stdtime "time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

// Command Builders
//
// These methods create tea.Cmd functions for async operations.
// They follow the async closure capture pattern to avoid bugs
// where model state changes between closure creation and execution.
//
// Key principle: Capture all needed values BEFORE returning the closure.

const successMessageDuration = 2 * stdtime.Second

// optionsChangedMsg carries options reloaded from the options file
type optionsChangedMsg struct {
	options config.Options
	err     error
	// watched is set when the message came from the watcher and the
	// next change should be awaited
	watched bool
	// closed is set when the watcher stopped
	closed bool
}

type clearSuccessMsg struct{}

type errMsg struct {
	err error
}

// waitForOptionsChange waits for the next event from the options watcher.
// This is a non-blocking async command - it returns immediately and the
// closure waits for the watcher channel to signal changes.
func (m *Model) waitForOptionsChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	capturedWatcher := m.watcher
	return func() tea.Msg {
		event, ok := <-capturedWatcher.Changes()
		if !ok {
			return optionsChangedMsg{closed: true}
		}
		return optionsChangedMsg{options: event.Options, err: event.Err, watched: true}
	}
}

// reloadOptions reads the options file on demand
func (m *Model) reloadOptions() tea.Cmd {
	capturedPath := m.configPath
	return func() tea.Msg {
		opts, err := config.Load(capturedPath)
		if err != nil {
			logger.Warn("tui: failed to reload options", "path", capturedPath, "error", err)
		}
		return optionsChangedMsg{options: opts, err: err}
	}
}

// clearSuccessAfter clears the status message after a delay
func clearSuccessAfter(d stdtime.Duration) tea.Cmd {
	return tea.Tick(d, func(stdtime.Time) tea.Msg {
		return clearSuccessMsg{}
	})
}
