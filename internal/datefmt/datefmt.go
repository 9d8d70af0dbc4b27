// Package datefmt formats and parses dates using moment-style patterns
// such as "YYYY-MM-DD" or "LL".
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultPattern is the long localized date form ("January 2, 2006").
const DefaultPattern = "LL"

// MaxPatternLength limits pattern length.
const MaxPatternLength = 64

var (
	// ErrInvalidPattern indicates a pattern that cannot be converted to a layout.
	ErrInvalidPattern = errors.New("invalid date pattern")

	// ErrUnknownTimezone indicates a timezone name the system does not know.
	ErrUnknownTimezone = errors.New("unknown timezone")

	// ErrEmpty is returned when parsing empty text.
	ErrEmpty = errors.New("empty date")
)

// presets expand localized pattern shortcuts. Ordered longest first.
var presets = []struct {
	token   string
	pattern string
}{
	{"LLLL", "dddd, MMMM D, YYYY h:mm A"},
	{"LLL", "MMMM D, YYYY h:mm A"},
	{"LTS", "h:mm:ss A"},
	{"LL", "MMMM D, YYYY"},
	{"LT", "h:mm A"},
	{"L", "MM/DD/YYYY"},
}

// tokens maps pattern tokens to Go layout components. format is used for
// rendering; parse accepts unpadded input for numeric fields.
// Ordered by length descending for greedy matching.
var tokens = []struct {
	token  string
	format string
	parse  string
}{
	{"YYYY", "2006", "2006"},
	{"MMMM", "January", "January"},
	{"dddd", "Monday", "Monday"},
	{"MMM", "Jan", "Jan"},
	{"ddd", "Mon", "Mon"},
	{"YY", "06", "06"},
	{"MM", "01", "1"},
	{"DD", "02", "2"},
	{"HH", "15", "15"},
	{"hh", "03", "3"},
	{"mm", "04", "4"},
	{"ss", "05", "5"},
	{"ZZ", "-0700", "-0700"},
	{"M", "1", "1"},
	{"D", "2", "2"},
	{"H", "15", "15"},
	{"h", "3", "3"},
	{"m", "4", "4"},
	{"s", "5", "5"},
	{"A", "PM", "PM"},
	{"a", "pm", "pm"},
	{"Z", "-07:00", "-07:00"},
}

// Layout converts a pattern to the Go time layout used for formatting.
func Layout(pattern string) (string, error) {
	format, _, err := layouts(pattern)
	return format, err
}

func layouts(pattern string) (string, string, error) {
	if pattern == "" {
		return "", "", fmt.Errorf("%w: pattern cannot be empty", ErrInvalidPattern)
	}
	if len(pattern) > MaxPatternLength {
		return "", "", fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidPattern, MaxPatternLength)
	}

	expanded, err := expandPresets(pattern)
	if err != nil {
		return "", "", err
	}

	var format, parse, literal strings.Builder
	prev := ""
	flush := func(next string) error {
		lit := literal.String()
		if err := checkLiteral(prev, lit, next); err != nil {
			return err
		}
		format.WriteString(lit)
		parse.WriteString(lit)
		literal.Reset()
		return nil
	}

	i := 0
	for i < len(expanded) {
		if expanded[i] == '[' {
			end := strings.Index(expanded[i+1:], "]")
			if end == -1 {
				return "", "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidPattern, i)
			}
			literal.WriteString(expanded[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(expanded[i:], t.token) {
				if err := flush(t.format); err != nil {
					return "", "", err
				}
				format.WriteString(t.format)
				parse.WriteString(t.parse)
				prev = t.format
				i += len(t.token)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		c := expanded[i]
		if isASCIILetter(c) && c != 'T' {
			return "", "", fmt.Errorf("%w: unsupported token %q at position %d", ErrInvalidPattern, c, i)
		}
		literal.WriteByte(c)
		i++
	}

	if err := flush(""); err != nil {
		return "", "", err
	}
	return format.String(), parse.String(), nil
}

// layoutWords are Go layout elements that literal text must not spell.
var layoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

// checkLiteral rejects literal text that Go would read as part of the
// layout, alone or joined to the token output before or after it.
func checkLiteral(prev, lit, next string) error {
	if lit == "" {
		return nil
	}
	if strings.ContainsAny(lit, "0123456789_") {
		return fmt.Errorf("%w: literal %q contains digits or underscores", ErrInvalidPattern, lit)
	}
	for _, w := range layoutWords {
		if strings.Contains(lit, w) {
			return fmt.Errorf("%w: literal %q contains layout word %q", ErrInvalidPattern, lit, w)
		}
	}
	switch {
	case prev == "Mon" && strings.HasPrefix(lit, "day"),
		prev == "Jan" && strings.HasPrefix(lit, "uary"),
		strings.HasSuffix(lit, "P") && strings.HasPrefix(next, "M"):
		return fmt.Errorf("%w: literal %q runs into a neighbouring token", ErrInvalidPattern, lit)
	}
	return nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// expandPresets replaces localized shortcuts outside of brackets.
func expandPresets(pattern string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		if pattern[i] == '[' {
			end := strings.Index(pattern[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidPattern, i)
			}
			b.WriteString(pattern[i : i+end+2])
			i += end + 2
			continue
		}

		matched := false
		for _, p := range presets {
			if strings.HasPrefix(pattern[i:], p.token) {
				b.WriteString(p.pattern)
				i += len(p.token)
				matched = true
				break
			}
		}

		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String(), nil
}

// Format renders and parses dates for one pattern and location.
type Format struct {
	pattern     string
	layout      string
	parseLayout string
	loc         *time.Location
	timezone    string
}

// New creates a Format. An empty pattern uses DefaultPattern; an empty
// timezone uses the local zone.
func New(pattern, timezone string) (*Format, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	layout, parseLayout, err := layouts(pattern)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if timezone != "" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, timezone)
		}
	}

	return &Format{
		pattern:     pattern,
		layout:      layout,
		parseLayout: parseLayout,
		loc:         loc,
		timezone:    timezone,
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and constants.
func MustNew(pattern, timezone string) *Format {
	f, err := New(pattern, timezone)
	if err != nil {
		panic(err)
	}
	return f
}

// Pattern returns the pattern the Format was built from.
func (f *Format) Pattern() string {
	return f.pattern
}

// Layout returns the Go layout used for rendering.
func (f *Format) Layout() string {
	return f.layout
}

// Location returns the configured location.
func (f *Format) Location() *time.Location {
	return f.loc
}

// Timezone returns the configured timezone name, or "" for local time.
func (f *Format) Timezone() string {
	return f.timezone
}

// Format renders t in the configured location.
func (f *Format) Format(t time.Time) string {
	return t.In(f.loc).Format(f.layout)
}

// Parse parses text with the canonical layout, falling back to the
// relaxed layout that accepts unpadded numeric fields.
func (f *Format) Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrEmpty
	}

	t, err := time.ParseInLocation(f.layout, text, f.loc)
	if err == nil {
		return t, nil
	}

	if f.parseLayout != f.layout {
		if t, relaxedErr := time.ParseInLocation(f.parseLayout, text, f.loc); relaxedErr == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse %q as %q: %w", text, f.pattern, err)
}

// ParseBound parses a configured bound. Besides the pattern it accepts
// ISO dates and RFC 3339 timestamps.
func (f *Format) ParseBound(text string) (time.Time, error) {
	t, err := f.Parse(text)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, ErrEmpty) {
		return time.Time{}, err
	}

	trimmed := strings.TrimSpace(text)
	if t, isoErr := time.ParseInLocation("2006-01-02", trimmed, f.loc); isoErr == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, trimmed); rfcErr == nil {
		return t.In(f.loc), nil
	}

	return time.Time{}, err
}

// FromInstant converts a Unix millisecond instant to a time in the
// configured location.
func (f *Format) FromInstant(ms int64) time.Time {
	return time.UnixMilli(ms).In(f.loc)
}

// StartOfMonth returns the first instant of the month containing t.
func (f *Format) StartOfMonth(t time.Time) time.Time {
	t = t.In(f.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, f.loc)
}

// EndOfMonth returns the last millisecond of the month containing t.
func (f *Format) EndOfMonth(t time.Time) time.Time {
	return f.StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Millisecond)
}
