// Package validate checks typed date text against a format and bounds.
//
// User-input problems are never returned as errors from Validate or Check.
// They are reported through Validity flags so the caller can decide how to
// render them, and they leave the previously committed value alone.
package validate

import (
	"errors"
	"time"

	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/MikeBiancalana/datesel/internal/interval"
)

var (
	ErrInvalidTime  = errors.New("text is not a valid date")
	ErrOutOfBounds  = errors.New("date is outside the allowed range")
	ErrInvalidStart = errors.New("start bound is not a valid date")
	ErrInvalidEnd   = errors.New("end bound is not a valid date")
)

// Validity holds independent validity flags. A false flag is a failure.
type Validity struct {
	Time   bool `json:"time"`
	Bounds bool `json:"bounds"`
	Start  bool `json:"start"`
	End    bool `json:"end"`
}

// Valid returns a Validity with every flag set.
func Valid() Validity {
	return Validity{Time: true, Bounds: true, Start: true, End: true}
}

// OK reports whether every flag is set.
func (v Validity) OK() bool {
	return v.Time && v.Bounds && v.Start && v.End
}

// Failures returns the names of the cleared flags in a stable order.
func (v Validity) Failures() []string {
	var names []string
	if !v.Time {
		names = append(names, "time")
	}
	if !v.Bounds {
		names = append(names, "bounds")
	}
	if !v.Start {
		names = append(names, "start")
	}
	if !v.End {
		names = append(names, "end")
	}
	return names
}

// Err joins the sentinel errors of every cleared flag, or returns nil.
func (v Validity) Err() error {
	var errs []error
	if !v.Time {
		errs = append(errs, ErrInvalidTime)
	}
	if !v.Bounds {
		errs = append(errs, ErrOutOfBounds)
	}
	if !v.Start {
		errs = append(errs, ErrInvalidStart)
	}
	if !v.End {
		errs = append(errs, ErrInvalidEnd)
	}
	return errors.Join(errs...)
}

// Result is the outcome of a validation pass. Value is zero unless the
// text may be committed; Text is the canonical rendering of Value.
type Result struct {
	Validity Validity
	Value    time.Time
	Text     string
}

// Committable reports whether Value should replace the committed value.
func (r Result) Committable() bool {
	return !r.Value.IsZero()
}

// Validator validates text for a single format.
type Validator struct {
	Format *datefmt.Format
}

// New creates a Validator.
func New(format *datefmt.Format) *Validator {
	return &Validator{Format: format}
}

// Validate runs the full pass used when editing finishes: the text must
// parse, must lie within bounds when strict is set, and the bounds
// themselves are checked. On success Text holds the normalized form.
func (v *Validator) Validate(text string, b interval.Bounds, strict bool) Result {
	res := Result{Validity: Valid()}

	if b.Start.IsZero() {
		res.Validity.Start = false
	}
	if b.End.IsZero() {
		res.Validity.End = false
	}

	parsed, err := v.Format.Parse(text)
	if err != nil {
		res.Validity.Time = false
		return res
	}

	if strict && !b.Contains(parsed) {
		res.Validity.Bounds = false
		return res
	}

	res.Value = parsed
	res.Text = v.Format.Format(parsed)
	return res
}

// Check runs the lighter pass used while typing or selecting: the text
// must parse and lie within bounds regardless of strict mode. Text is left
// as typed.
func (v *Validator) Check(text string, b interval.Bounds) Result {
	res := Result{Validity: Valid(), Text: text}

	parsed, err := v.Format.Parse(text)
	if err != nil {
		res.Validity.Time = false
		return res
	}

	if !b.Contains(parsed) {
		res.Validity.Bounds = false
		return res
	}

	res.Value = parsed
	return res
}
