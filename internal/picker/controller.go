package picker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/MikeBiancalana/datesel/internal/interval"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/MikeBiancalana/datesel/internal/perf"
	"github.com/MikeBiancalana/datesel/internal/validate"
	"github.com/rs/xid"
)

const (
	oneDay  = 1
	oneWeek = 7

	walkThreshold = 5 * time.Millisecond
)

// Walks records every enumeration performed by any controller.
var Walks = perf.NewRecorder("picker.enumerate", walkThreshold)

// Controller is the navigation state machine of one picker.
type Controller struct {
	id        xid.ID
	log       *slog.Logger
	format    *datefmt.Format
	validator *validate.Validator
	binding   Binding
	now       func() time.Time

	bounds   interval.Bounds
	style    Style
	strict   bool
	disabled bool

	state    State
	preview  time.Time
	focused  bool
	text     string
	validity validate.Validity

	options     []int64
	activeIndex int
	largest     int

	committing bool
	err        error
}

// New creates a Controller bound to binding. The initial value is clamped
// into the bounds and rendered; a value that cannot be rendered returns a
// *RenderError.
func New(opts Options, binding Binding) (*Controller, error) {
	c := &Controller{
		id:       xid.New(),
		binding:  binding,
		now:      opts.Now,
		validity: validate.Valid(),
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.log = logger.GetLogger().With("picker", c.id.String())

	if err := c.configure(opts); err != nil {
		return nil, err
	}

	binding.OnChange(c.modelChanged)

	value := binding.Value()
	if clamped := c.bounds.Clamp(value); !clamped.Equal(value) {
		c.log.Debug("picker: clamped initial value", "from", value, "to", clamped)
		c.setModel(clamped)
	}

	c.refresh()
	c.reindex()

	if !binding.Value().IsZero() {
		if err := c.Render(); err != nil {
			return nil, err
		}
	}

	c.log.Debug("picker: created",
		"style", c.style,
		"strict", c.strict,
		"format", c.format.Pattern(),
		"options", len(c.options),
		"index", c.activeIndex)
	return c, nil
}

// configure applies options without touching interaction state.
func (c *Controller) configure(opts Options) error {
	style := opts.Style
	if style == "" {
		style = StyleDropdown
	}
	if style != StyleDropdown && style != StyleSequential {
		return fmt.Errorf("%w: %q", ErrInvalidStyle, style)
	}

	format, err := datefmt.New(opts.Format, opts.Timezone)
	if err != nil {
		return fmt.Errorf("failed to configure format: %w", err)
	}

	c.format = format
	c.validator = validate.New(format)
	c.style = style
	c.strict = opts.Strict
	c.disabled = opts.Disabled

	now := c.now()
	c.bounds = interval.Bounds{
		Start: c.parseBound("start", opts.Start, format.StartOfMonth(now)),
		End:   c.parseBound("end", opts.End, format.EndOfMonth(now)),
	}
	return nil
}

func (c *Controller) parseBound(name, text string, fallback time.Time) time.Time {
	if text == "" {
		return fallback
	}
	t, err := c.format.ParseBound(text)
	if err != nil {
		if rel, relErr := datefmt.ParseRelative(text, c.now().In(c.format.Location())); relErr == nil {
			return rel
		}
		c.log.Warn("picker: invalid bound", "bound", name, "text", text, "error", err)
		return time.Time{}
	}
	return t
}

// Reconfigure applies new options, e.g. after the options file changed.
// The committed value is re-rendered in the new format, then the text is
// re-validated and the active index re-resolved. A *RenderError is
// returned after the new options have been applied.
func (c *Controller) Reconfigure(opts Options) error {
	if opts.Now == nil {
		opts.Now = c.now
	}
	c.now = opts.Now
	if err := c.configure(opts); err != nil {
		return err
	}
	if c.state == Open && c.style == StyleSequential {
		c.close()
	}

	var renderErr error
	if !c.binding.Value().IsZero() {
		renderErr = c.Render()
	}
	c.boundsChanged()
	return renderErr
}

// SetBounds replaces the bounds. Zero values mark a bound invalid.
func (c *Controller) SetBounds(start, end time.Time) {
	c.bounds = interval.Bounds{Start: start, End: end}
	c.boundsChanged()
}

// SetStrict switches strict mode.
func (c *Controller) SetStrict(strict bool) {
	c.strict = strict
	c.boundsChanged()
}

func (c *Controller) boundsChanged() {
	c.refresh()
	if c.text != "" {
		c.validateText()
	} else {
		c.validity = validate.Valid()
		c.validity.Start = !c.bounds.Start.IsZero()
		c.validity.End = !c.bounds.End.IsZero()
	}
	c.reindex()
}

// refresh snapshots the enumerated options and the largest index.
func (c *Controller) refresh() {
	timer := perf.NewTimer("picker.enumerate", c.log, walkThreshold, Walks)
	c.options = interval.Enumerate(c.bounds.Start, c.bounds.End)
	timer.Stop("steps", len(c.options))
	c.largest = max(len(c.options)-1, 0)
}

func (c *Controller) reindex() {
	c.activeIndex = interval.ResolveIndex(c.bounds.Start, c.bounds.End, c.strict, c.binding.Value())
}

func (c *Controller) clampIndex(i int) int {
	return min(c.largest, max(0, i))
}

// Accessors

func (c *Controller) ID() string { return c.id.String() }
func (c *Controller) State() State { return c.state }
func (c *Controller) IsOpen() bool { return c.state == Open }
func (c *Controller) Focused() bool { return c.focused }
func (c *Controller) Text() string { return c.text }
func (c *Controller) Validity() validate.Validity { return c.validity }
func (c *Controller) ActiveIndex() int { return c.activeIndex }
func (c *Controller) LargestPossibleIndex() int { return c.largest }
func (c *Controller) Preview() time.Time { return c.preview }
func (c *Controller) Bounds() interval.Bounds { return c.bounds }
func (c *Controller) Format() *datefmt.Format { return c.format }
func (c *Controller) Style() Style { return c.style }
func (c *Controller) Strict() bool { return c.strict }
func (c *Controller) Disabled() bool { return c.disabled }
func (c *Controller) Value() time.Time { return c.binding.Value() }
func (c *Controller) Now() time.Time { return c.now() }

// Options returns the enumerated instants. Callers must not modify it.
func (c *Controller) Options() []int64 {
	return c.options
}

// Label formats an enumerated instant.
func (c *Controller) Label(instant int64) string {
	return c.format.Format(c.format.FromInstant(instant))
}

// Err returns the render error raised by the last host-originated change.
func (c *Controller) Err() error {
	return c.err
}

// SetLargestPossibleIndex overrides the largest index, as reported by a
// list surface that renders fewer items than were enumerated.
func (c *Controller) SetLargestPossibleIndex(i int) {
	c.largest = max(i, 0)
	c.activeIndex = min(c.activeIndex, c.largest)
}

// CanIncrement reports whether the increment button should be enabled.
func (c *Controller) CanIncrement() bool {
	return !c.disabled && c.activeIndex != c.largest
}

// CanDecrement reports whether the decrement button should be enabled.
func (c *Controller) CanDecrement() bool {
	return !c.disabled && c.activeIndex != 0
}

// Render pushes the committed value into the text. A value that is absent,
// cannot be formatted and parsed back, or (in strict mode) lies outside the
// bounds returns a *RenderError and leaves the text untouched.
func (c *Controller) Render() error {
	value := c.binding.Value()
	if value.IsZero() {
		return &RenderError{Reason: "no value"}
	}

	text := c.format.Format(value)
	if _, err := c.format.Parse(text); err != nil {
		return &RenderError{Value: value, Reason: fmt.Sprintf("does not round-trip through %q", c.format.Pattern())}
	}
	if c.strict && !c.bounds.Contains(value) {
		return &RenderError{Value: value, Reason: "outside bounds"}
	}

	c.text = text
	return nil
}

// modelChanged handles host-originated changes to the binding.
func (c *Controller) modelChanged(value time.Time) {
	if c.committing {
		return
	}
	c.reindex()
	c.err = c.Render()
	if c.err != nil {
		c.log.Error("picker: cannot render model value", "error", c.err)
	}
}

// setModel writes to the binding without triggering modelChanged.
func (c *Controller) setModel(value time.Time) {
	c.committing = true
	defer func() { c.committing = false }()
	c.binding.SetValue(value)
}

// commit stores value, re-resolves the index and optionally re-renders
// the text from the committed value.
func (c *Controller) commit(value time.Time, render bool) error {
	c.err = nil
	c.setModel(value)
	c.reindex()
	c.log.Debug("picker: committed", "value", value, "index", c.activeIndex)
	if render {
		return c.Render()
	}
	return nil
}

// open starts the preview interaction. Sequential pickers have no
// dropdown and step the committed value directly.
func (c *Controller) open() {
	if c.state == Open || c.style == StyleSequential {
		return
	}
	c.state = Open
	c.preview = c.binding.Value()
	if c.preview.IsZero() {
		c.preview = c.bounds.Start
	}
	c.log.Debug("picker: opened", "preview", c.preview, "index", c.activeIndex)
}

func (c *Controller) close() {
	if c.state == Closed {
		return
	}
	c.state = Closed
	c.preview = time.Time{}
	c.log.Debug("picker: closed", "index", c.activeIndex)
}

// validateText runs the full validation pass and commits the normalized
// value on success.
func (c *Controller) validateText() {
	res := c.validator.Validate(c.text, c.bounds, c.strict)
	c.validity = res.Validity
	if !res.Committable() {
		c.log.Debug("picker: text rejected", "text", c.text, "failures", res.Validity.Failures())
		return
	}
	c.text = res.Text
	_ = c.commit(res.Value, false)
}

// update runs the live pass used while typing and on selection.
func (c *Controller) update() {
	res := c.validator.Check(c.text, c.bounds)
	c.validity.Time = res.Validity.Time
	c.validity.Bounds = res.Validity.Bounds
	if res.Committable() {
		_ = c.commit(res.Value, false)
	}
}

// Focus records that the text field gained focus. The returned action
// opens the dropdown once the focus has settled.
func (c *Controller) Focus() Pending {
	if c.disabled {
		return Pending{}
	}
	c.focused = true
	return Pending{Action: ActionOpen, Delay: SettleDelay}
}

// Blur records that the text field lost focus. The returned action closes
// the dropdown and validates the text unless focus came back.
func (c *Controller) Blur() Pending {
	c.focused = false
	if c.disabled {
		return Pending{}
	}
	return Pending{Action: ActionClose, Delay: SettleDelay}
}

// Fire runs a deferred action if its guard still holds.
func (c *Controller) Fire(p Pending) {
	if c.disabled {
		return
	}
	switch p.Action {
	case ActionOpen:
		if c.focused {
			c.open()
		}
	case ActionClose:
		if c.focused {
			c.log.Debug("picker: close suppressed, refocused")
			return
		}
		c.close()
		c.validateText()
	}
}

// Toggle handles the dropdown toggle button: it closes an open dropdown
// and otherwise focuses the field, which opens it after settling.
func (c *Controller) Toggle() Pending {
	if c.disabled {
		return Pending{}
	}
	if c.state == Open {
		c.focused = true
		c.close()
		return Pending{}
	}
	return c.Focus()
}

// SetText handles a change of the typed text.
func (c *Controller) SetText(text string) {
	if c.disabled {
		return
	}
	c.text = text
	c.update()
}

// Increment steps one day forward.
func (c *Controller) Increment() error {
	return c.step(oneDay)
}

// Decrement steps one day back.
func (c *Controller) Decrement() error {
	return c.step(-oneDay)
}

// step moves the preview when open and the committed value otherwise,
// clamping to the bounds in both cases.
func (c *Controller) step(days int) error {
	if c.disabled {
		return nil
	}

	if c.state == Open {
		// Nothing to move from without a value or a start bound
		if c.preview.IsZero() {
			return nil
		}
		c.preview = c.bounds.Clamp(c.preview.AddDate(0, 0, days))
		c.activeIndex = c.clampIndex(c.activeIndex + days)
		return nil
	}

	current := c.binding.Value()
	if current.IsZero() {
		current = c.bounds.Start
	} else {
		current = current.AddDate(0, 0, days)
	}
	if current.IsZero() {
		return nil
	}
	if err := c.commit(c.bounds.Clamp(current), true); err != nil {
		return err
	}
	c.activeIndex = c.clampIndex(c.activeIndex)
	c.validity.Time = true
	c.validity.Bounds = true
	return nil
}

// PageUp opens the dropdown and moves the preview one week back.
// Sequential pickers have no dropdown and step the committed value.
func (c *Controller) PageUp() {
	c.page(-oneWeek)
}

// PageDown opens the dropdown and moves the preview one week forward.
// Sequential pickers have no dropdown and step the committed value.
func (c *Controller) PageDown() {
	c.page(oneWeek)
}

func (c *Controller) page(days int) {
	if c.disabled {
		return
	}
	c.open()
	_ = c.step(days)
}

// Select picks an enumerated instant at index, validates it and closes.
func (c *Controller) Select(instant int64, index int) {
	if c.disabled {
		return
	}
	c.text = c.Label(instant)
	c.activeIndex = c.clampIndex(index)
	c.update()
	c.close()
}

// Accept commits the preview. It does nothing while closed.
func (c *Controller) Accept() error {
	if c.disabled || c.state != Open || c.preview.IsZero() {
		return nil
	}
	value := c.preview
	c.close()
	return c.commit(value, true)
}

// Cancel closes the dropdown and discards the preview.
func (c *Controller) Cancel() {
	c.close()
}

// Wheel moves the active index by delta (positive scrolls up) and selects
// the option under it. It only acts while focused.
func (c *Controller) Wheel(delta int) {
	if c.disabled || !c.focused || len(c.options) == 0 {
		return
	}
	index := c.clampIndex(c.activeIndex - delta)
	index = min(index, len(c.options)-1)
	c.Select(c.options[index], index)
}

// HandleKey maps navigation keys onto the state machine.
func (c *Controller) HandleKey(k Key) error {
	if c.disabled {
		return nil
	}
	switch k {
	case KeyEnter:
		return c.Accept()
	case KeyEscape:
		c.Cancel()
	case KeyPageUp:
		c.PageUp()
	case KeyPageDown:
		c.PageDown()
	case KeyUp:
		c.open()
		return c.Decrement()
	case KeyDown:
		c.open()
		return c.Increment()
	}
	return nil
}

// Highlighted returns the value the user currently sees as selected: the
// preview while open, the committed value otherwise.
func (c *Controller) Highlighted() time.Time {
	if c.state == Open {
		return c.preview
	}
	return c.binding.Value()
}
