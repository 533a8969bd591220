package timing

import "time"

// Debouncer coalesces bursts of Request calls into one call of fn with
// the most recent value, interval after the last request.
type Debouncer[T any] struct {
	slot     *Slot
	interval time.Duration
	fn       func(T)
	pending  T
	has      bool
}

// NewDebouncer returns an idle Debouncer.
func NewDebouncer[T any](clock Clock, dispatch Dispatcher, interval time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		slot:     NewSlot(clock, dispatch),
		interval: interval,
		fn:       fn,
	}
}

// Request stores v and restarts the quiet period.
func (d *Debouncer[T]) Request(v T) {
	d.pending = v
	d.has = true
	d.slot.Arm(d.interval, d.fire)
}

// Flush runs fn now with the pending value, if any.
func (d *Debouncer[T]) Flush() {
	if !d.has {
		return
	}
	d.slot.Cancel()
	d.fire()
}

// Cancel drops the pending value without calling fn.
func (d *Debouncer[T]) Cancel() {
	d.slot.Cancel()
	var zero T
	d.pending = zero
	d.has = false
}

// Pending reports whether a value is waiting to be written.
func (d *Debouncer[T]) Pending() bool {
	return d.has
}

func (d *Debouncer[T]) fire() {
	v := d.pending
	var zero T
	d.pending = zero
	d.has = false
	d.fn(v)
}
