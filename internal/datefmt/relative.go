package datefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotRelative is returned for input that is not a relative shortcut.
var ErrNotRelative = errors.New("not a relative date")

var weekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseRelative parses relative date shortcuts against now:
//   - "t" or "today", "tm" or "tomorrow", "yd" or "yesterday"
//   - "mon" ... "sun" for the next occurrence of that weekday
//   - "+3d", "-3d", "+2w", "-2w" for day and week offsets
//
// The result is the start of the resulting day in now's location.
func ParseRelative(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, ErrEmpty
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch input {
	case "t", "today":
		return today, nil
	case "tm", "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yd", "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if wd, ok := weekdays[input]; ok {
		daysUntil := int(wd - today.Weekday())
		// Today or earlier this week means next week
		if daysUntil <= 0 {
			daysUntil += 7
		}
		return today.AddDate(0, 0, daysUntil), nil
	}

	if len(input) >= 3 && (input[0] == '+' || input[0] == '-') {
		unit := input[len(input)-1]
		if unit != 'd' && unit != 'w' {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotRelative, input)
		}
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("%w: invalid offset %q", ErrNotRelative, input)
		}
		if input[0] == '-' {
			n = -n
		}
		if unit == 'w' {
			n *= 7
		}
		return today.AddDate(0, 0, n), nil
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrNotRelative, input)
}

// ParseLoose parses text with the pattern and falls back to relative
// shortcuts evaluated in the configured location.
func (f *Format) ParseLoose(text string, now time.Time) (time.Time, error) {
	t, err := f.Parse(text)
	if err == nil || errors.Is(err, ErrEmpty) {
		return t, err
	}
	if rel, relErr := ParseRelative(text, now.In(f.loc)); relErr == nil {
		return rel, nil
	}
	return time.Time{}, err
}

// Describe returns a short description of date relative to now, e.g.
// "today", "tomorrow", "Friday", "in 2 weeks" or "3 days ago".
func Describe(date, now time.Time) string {
	nowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dateStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dateStart.Sub(nowStart).Hours() / 24)

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days >= 2 && days <= 6:
		return date.Weekday().String()
	case days == 7:
		return "in 1 week"
	case days > 7 && days < 28:
		return fmt.Sprintf("in %d weeks", days/7)
	case days < -1 && days > -7:
		return fmt.Sprintf("%d days ago", -days)
	}
	return date.Format("Jan 2, 2006")
}
