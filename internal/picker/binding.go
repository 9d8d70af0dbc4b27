package picker

import "time"

// Binding is the host-owned committed value.
type Binding interface {
	Value() time.Time
	SetValue(time.Time)
	OnChange(func(time.Time))
}

// Value is an in-memory Binding. Listeners run synchronously when the
// value changes.
type Value struct {
	value     time.Time
	listeners []func(time.Time)
}

// NewValue creates a Value holding initial.
func NewValue(initial time.Time) *Value {
	return &Value{value: initial}
}

func (v *Value) Value() time.Time {
	return v.value
}

// SetValue stores t and notifies listeners if it differs from the current value.
func (v *Value) SetValue(t time.Time) {
	if v.value.Equal(t) {
		return
	}
	v.value = t
	for _, fn := range v.listeners {
		fn(t)
	}
}

func (v *Value) OnChange(fn func(time.Time)) {
	v.listeners = append(v.listeners, fn)
}
