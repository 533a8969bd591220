package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDelay(t *testing.T) {
	tests := []struct {
		token string
		wpm   int
		want  time.Duration
	}{
		{"hello", 600, 100 * time.Millisecond},
		{"hello.", 600, 150 * time.Millisecond},
		{"hello!", 600, 150 * time.Millisecond},
		{"hello?", 600, 150 * time.Millisecond},
		{"hello,", 600, 120 * time.Millisecond},
		{"hello;", 600, 120 * time.Millisecond},
		{"hello:", 600, 120 * time.Millisecond},
		{"end.)", 600, 100 * time.Millisecond},
		{"", 600, 100 * time.Millisecond},
		{"word", 60, time.Second},
		{"word", 0, time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delay(tt.token, tt.wpm), "token %q at %d wpm", tt.token, tt.wpm)
	}
}

func TestSchedulerFiresOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	fired := 0
	s := NewScheduler(clock, Inline, func() { fired++ })

	d := s.Schedule("hello.", 600)
	require.Equal(t, 150*time.Millisecond, d)
	require.True(t, s.Pending())

	clock.Advance(149 * time.Millisecond)
	assert.Equal(t, 0, fired)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, s.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 1, fired, "scheduler must not re-arm itself")
}

func TestSchedulerCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	fired := 0
	s := NewScheduler(clock, Inline, func() { fired++ })

	s.Cancel()
	s.Cancel()
	assert.False(t, s.Pending())

	s.Schedule("hello", 600)
	s.Cancel()
	s.Cancel()
	clock.Advance(time.Second)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, clock.Pending())
}

func TestScheduleReplacesPending(t *testing.T) {
	clock := NewManualClock(epoch)
	fired := 0
	s := NewScheduler(clock, Inline, func() { fired++ })

	s.Schedule("hello", 600)
	clock.Advance(90 * time.Millisecond)
	s.Schedule("hello", 300)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, fired, "reschedule restarts the full delay")
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, fired)
}

func TestSlotDropsStaleDelivery(t *testing.T) {
	clock := NewManualClock(epoch)
	var queued []func()
	deferred := func(f func()) { queued = append(queued, f) }
	slot := NewSlot(clock, deferred)

	fired := 0
	slot.Arm(10*time.Millisecond, func() { fired++ })
	clock.Advance(10 * time.Millisecond)
	require.Len(t, queued, 1)

	// Cancellation lands before the queued delivery runs.
	slot.Cancel()
	queued[0]()
	assert.Equal(t, 0, fired)
}

func TestDebouncerCoalesces(t *testing.T) {
	clock := NewManualClock(epoch)
	var got []int
	d := NewDebouncer(clock, Inline, 500*time.Millisecond, func(v int) { got = append(got, v) })

	d.Request(1)
	clock.Advance(200 * time.Millisecond)
	d.Request(2)
	clock.Advance(200 * time.Millisecond)
	d.Request(3)
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, got)
	clock.Advance(time.Millisecond)
	assert.Equal(t, []int{3}, got)
	assert.False(t, d.Pending())
}

func TestDebouncerFlushAndCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	var got []string
	d := NewDebouncer(clock, Inline, time.Second, func(v string) { got = append(got, v) })

	d.Flush()
	assert.Empty(t, got)

	d.Request("a")
	d.Flush()
	assert.Equal(t, []string{"a"}, got)
	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"a"}, got)

	d.Request("b")
	d.Cancel()
	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"a"}, got)
}

func TestManualClockOrdersCallbacks(t *testing.T) {
	clock := NewManualClock(epoch)
	var order []string
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	clock.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "a")
		clock.AfterFunc(5*time.Millisecond, func() { order = append(order, "b") })
	})
	clock.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(time.Second), clock.Now())
}
