package timing

import "time"

// Slot owns at most one pending single-shot callback. Every Arm or Cancel
// bumps a generation counter, so a timer that already fired but whose
// callback reaches the owner afterwards is dropped.
//
// Slot is not safe for concurrent use; all methods and delivered callbacks
// run on the dispatcher's context.
type Slot struct {
	clock    Clock
	dispatch Dispatcher
	timer    Timer
	gen      uint64
}

// NewSlot returns an idle Slot.
func NewSlot(clock Clock, dispatch Dispatcher) *Slot {
	if dispatch == nil {
		dispatch = Inline
	}
	return &Slot{clock: clock, dispatch: dispatch}
}

// Arm replaces any pending callback with fn after d.
func (s *Slot) Arm(d time.Duration, fn func()) {
	s.Cancel()
	gen := s.gen
	dispatch := s.dispatch
	s.timer = s.clock.AfterFunc(d, func() {
		dispatch(func() {
			if s.gen != gen || s.timer == nil {
				return
			}
			s.timer = nil
			s.gen++
			fn()
		})
	})
}

// Cancel disarms the pending callback, if any. Safe to call when idle.
func (s *Slot) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Pending reports whether a callback is armed.
func (s *Slot) Pending() bool {
	return s.timer != nil
}
