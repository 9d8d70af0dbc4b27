// Package picker drives a date picker: it owns the preview value, the
// validity flags and the active index, and commits values to a host-owned
// Binding.
//
// The controller is single-threaded. Every method runs to completion
// synchronously; the only deferred work is the focus settle delay, which
// the host schedules and hands back through Fire.
package picker

import (
	"errors"
	"fmt"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
)

// Style selects between a dropdown list and increment/decrement buttons.
type Style string

const (
	StyleDropdown   Style = "dropdown"
	StyleSequential Style = "sequential"
)

// ErrInvalidStyle is returned by New for an unknown Style.
var ErrInvalidStyle = errors.New("invalid style")

// Options configure a Controller.
type Options struct {
	// Format is a moment-style pattern; empty means "LL".
	Format string
	// Timezone is an IANA zone name; empty means local time.
	Timezone string
	// Start and End are the bounds as text, in the pattern, as ISO dates
	// or as relative shortcuts like "t" or "+2w". Empty means the first
	// and last instant of the current month. Text that cannot be parsed
	// leaves the bound invalid and is reported through Validity.
	Start string
	End   string
	Style Style
	// Strict requires values to land exactly on an enumerated day and
	// within bounds.
	Strict   bool
	Disabled bool
	// Now is used for default bounds; nil means time.Now.
	Now func() time.Time
}

// FromConfig converts stored options. now may be nil.
func FromConfig(o config.Options, now func() time.Time) Options {
	return Options{
		Format:   o.Format,
		Timezone: o.Timezone,
		Start:    o.Start,
		End:      o.End,
		Style:    Style(o.Style),
		Strict:   o.Strict,
		Disabled: o.Disabled,
		Now:      now,
	}
}

// State is the open/closed state of the dropdown interaction.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key is a navigation key understood by HandleKey.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
)

// SettleDelay is how long focus changes wait before taking effect, so that
// focus moving between the text field and the toggle does not flicker the
// dropdown.
const SettleDelay = 150 * time.Millisecond

// Action is a deferred state change.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Pending is a deferred action. The host runs it after Delay by calling
// Fire; Fire re-checks the focus state, so a Pending never needs to be
// cancelled.
type Pending struct {
	Action Action
	Delay  time.Duration
}

// None reports whether there is nothing to schedule.
func (p Pending) None() bool {
	return p.Action == ActionNone
}

// ErrInvalidModelValue marks a committed value that cannot be displayed.
var ErrInvalidModelValue = errors.New("invalid model value")

// RenderError is returned when the host-supplied value cannot be rendered.
// It indicates a host bug, not a user-input problem.
type RenderError struct {
	Value  time.Time
	Reason string
}

func (e *RenderError) Error() string {
	if e.Value.IsZero() {
		return fmt.Sprintf("%v: %s", ErrInvalidModelValue, e.Reason)
	}
	return fmt.Sprintf("%v %s: %s", ErrInvalidModelValue, e.Value.Format(time.RFC3339), e.Reason)
}

func (e *RenderError) Unwrap() error { return ErrInvalidModelValue }
