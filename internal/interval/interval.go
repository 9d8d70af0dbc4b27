// Package interval enumerates the selectable days between two bounds and
// positions dates within that enumeration.
//
// All walks step one calendar day at a time with AddDate rather than
// dividing durations, so days shortened or lengthened by a daylight saving
// transition stay aligned with the enumerated list.
package interval

import "time"

// MaxSteps caps every walk. Reaching it means the bounds are very far
// apart or inverted; the walk is truncated instead of reported.
const MaxSteps = 9999

// Bounds is the inclusive range of selectable dates.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether both bounds are set.
func (b Bounds) Valid() bool {
	return !b.Start.IsZero() && !b.End.IsZero()
}

// Contains reports whether t lies within [Start, End]. A missing bound
// does not constrain its side.
func (b Bounds) Contains(t time.Time) bool {
	if !b.Start.IsZero() && t.Before(b.Start) {
		return false
	}
	if !b.End.IsZero() && t.After(b.End) {
		return false
	}
	return true
}

// Clamp constrains t to the bounds. See Clamp.
func (b Bounds) Clamp(t time.Time) time.Time {
	return Clamp(t, b.Start, b.End)
}

// next advances one calendar day in t's location.
func next(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// Enumerate returns the Unix millisecond instants of every day from start
// to end inclusive. Missing bounds give an empty slice. The result never
// holds more than MaxSteps entries.
func Enumerate(start, end time.Time) []int64 {
	instants := []int64{}
	if start.IsZero() || end.IsZero() {
		return instants
	}

	for t := start; !t.After(end); t = next(t) {
		instants = append(instants, t.UnixMilli())
		if len(instants) >= MaxSteps {
			break
		}
	}
	return instants
}

// ResolveIndex returns the position of candidate in Enumerate(start, end).
//
// A missing candidate or bound resolves to 0. When candidate falls between
// two steps, strict mode returns -1 and lenient mode selects the earlier
// step. Candidates outside the range are -1 in strict mode and clamp to the
// first or last position otherwise.
func ResolveIndex(start, end time.Time, strict bool, candidate time.Time) int {
	if candidate.IsZero() || start.IsZero() || end.IsZero() {
		return 0
	}

	index := 0
	for t := start; !t.After(end) && index < MaxSteps; t = next(t) {
		if t.Equal(candidate) {
			return index
		}
		if t.After(candidate) {
			if strict {
				return -1
			}
			return max(index-1, 0)
		}
		index++
	}

	// Walked off the end (or the cap) without passing candidate.
	switch {
	case strict:
		return -1
	case index == 0:
		return 0
	default:
		return index - 1
	}
}

// Clamp returns start when t is before start, end when t is after end and
// t otherwise. A zero t is returned unchanged.
func Clamp(t, start, end time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if !start.IsZero() && t.Before(start) {
		return start
	}
	if !end.IsZero() && t.After(end) {
		return end
	}
	return t
}
