package timing

import (
	"math"
	"time"
	"unicode/utf8"
)

// Pacing multipliers applied by the last character of a token.
const (
	SentencePause = 1.5
	ClausePause   = 1.2
)

// Multiplier returns the pacing factor for token.
func Multiplier(token string) float64 {
	last, _ := utf8.DecodeLastRuneInString(token)
	switch last {
	case '.', '!', '?':
		return SentencePause
	case ',', ';', ':':
		return ClausePause
	default:
		return 1.0
	}
}

// Delay is how long token stays on screen at wpm.
func Delay(token string, wpm int) time.Duration {
	if wpm < 1 {
		wpm = 1
	}
	base := float64(time.Minute) / float64(wpm)
	return time.Duration(math.Round(base * Multiplier(token)))
}

// Scheduler arms one advance at a time for the token on screen. It never
// re-arms itself: after reporting, the owner decides what comes next.
type Scheduler struct {
	slot      *Slot
	onAdvance func()
}

// NewScheduler returns a Scheduler reporting to onAdvance.
func NewScheduler(clock Clock, dispatch Dispatcher, onAdvance func()) *Scheduler {
	return &Scheduler{slot: NewSlot(clock, dispatch), onAdvance: onAdvance}
}

// Schedule replaces any pending advance with one after Delay(token, wpm)
// and returns that delay.
func (s *Scheduler) Schedule(token string, wpm int) time.Duration {
	d := Delay(token, wpm)
	s.slot.Arm(d, s.onAdvance)
	return d
}

// Cancel drops the pending advance.
func (s *Scheduler) Cancel() {
	s.slot.Cancel()
}

// Pending reports whether an advance is armed.
func (s *Scheduler) Pending() bool {
	return s.slot.Pending()
}
