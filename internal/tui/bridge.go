package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const bridgeBuffer = 16

type dispatchMsg struct {
	fn func()
}

// Bridge carries engine callbacks from timer and loader goroutines into
// the Bubble Tea update loop, so the engine only ever runs there.
type Bridge struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewBridge returns an open Bridge.
func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan func(), bridgeBuffer),
		done: make(chan struct{}),
	}
}

// Dispatch queues fn for the update loop. It is a timing.Dispatcher and
// drops fn once the bridge is closed.
func (b *Bridge) Dispatch(fn func()) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.ch <- fn:
	case <-b.done:
	}
}

// Listen waits for the next queued callback.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-b.ch:
			return dispatchMsg{fn: fn}
		case <-b.done:
			return nil
		}
	}
}

// Close releases pending and future Dispatch and Listen calls.
func (b *Bridge) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}
