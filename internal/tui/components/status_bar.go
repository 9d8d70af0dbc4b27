package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("236")).
		Padding(0, 1)
)

const statusBarHints = "ctrl+s:confirm ctrl+t:today ctrl+r:reload f1:help ctrl+c:quit"

// StatusBar represents the status bar component
type StatusBar struct {
	width   int
	pattern string
	bounds  string
	strict  bool
	message string
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetWidth sets the width of the status bar
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetPicker describes the active picker configuration
func (sb *StatusBar) SetPicker(pattern, start, end string, strict bool) {
	sb.pattern = pattern
	sb.bounds = fmt.Sprintf("%s – %s", orInvalid(start), orInvalid(end))
	sb.strict = strict
}

// SetMessage sets a transient message shown before the hints
func (sb *StatusBar) SetMessage(msg string) {
	sb.message = msg
}

func orInvalid(s string) string {
	if s == "" {
		return "invalid"
	}
	return s
}

// View renders the status bar
func (sb *StatusBar) View() string {
	var parts []string
	if sb.message != "" {
		parts = append(parts, sb.message)
	}
	if sb.pattern != "" {
		info := sb.pattern + " " + sb.bounds
		if sb.strict {
			info += " strict"
		}
		parts = append(parts, info)
	}
	parts = append(parts, statusBarHints)
	line := strings.Join(parts, " | ")

	// Truncate if too long
	if sb.width > 5 && len([]rune(line)) > sb.width-2 {
		line = string([]rune(line)[:sb.width-5]) + "..."
	}

	return statusBarStyle.Width(sb.width).Render(line)
}
