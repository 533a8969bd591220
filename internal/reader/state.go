// Package reader drives a single RSVP reading session.
package reader

import (
	"errors"
	"fmt"
	"time"
)

// State is a playback state.
type State int

const (
	StateInput State = iota
	StateLoading
	StateCountdown
	StatePlaying
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInput:
		return "input"
	case StateLoading:
		return "loading"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for a trigger the current state does
// not accept. The engine is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// Trigger is an input to Engine.Dispatch.
type Trigger interface {
	triggerName() string
}

// Submit asks to read Input, which may be text, a file path or a URL.
type Submit struct {
	Input string
}

// Acquired delivers the outcome of a content load. It is produced by the
// engine itself; a result for a superseded load is dropped.
type Acquired struct {
	load uint64
	Text string
	Err  error
}

// CountdownTick is one step of the pre-play countdown.
type CountdownTick struct{}

// Advance reports that the current word's delay elapsed.
type Advance struct{}

// Pause stops playback.
type Pause struct{}

// Play starts or resumes playback.
type Play struct{}

// Toggle switches between playing and paused.
type Toggle struct{}

// Restart plays from the first word.
type Restart struct{}

// Back discards the session and returns to input.
type Back struct{}

// Seek moves the current word by Delta.
type Seek struct {
	Delta int
}

// ChangeWPM changes the reading rate by Delta.
type ChangeWPM struct {
	Delta int
}

// AcceptResume reopens the saved session.
type AcceptResume struct{}

// DeclineResume dismisses the saved session offer.
type DeclineResume struct{}

func (Submit) triggerName() string        { return "submit" }
func (Acquired) triggerName() string      { return "acquired" }
func (CountdownTick) triggerName() string { return "countdown-tick" }
func (Advance) triggerName() string       { return "advance" }
func (Pause) triggerName() string         { return "pause" }
func (Play) triggerName() string          { return "play" }
func (Toggle) triggerName() string        { return "toggle" }
func (Restart) triggerName() string       { return "restart" }
func (Back) triggerName() string          { return "back" }
func (Seek) triggerName() string          { return "seek" }
func (ChangeWPM) triggerName() string     { return "change-wpm" }
func (AcceptResume) triggerName() string  { return "accept-resume" }
func (DeclineResume) triggerName() string { return "decline-resume" }

// Session is the live document.
type Session struct {
	ID         string
	Source     string
	URL        string
	SourceText string
	Tokens     []string
	Index      int
	WPM        int
	StartedAt  time.Time
}

// Last returns the index of the final token.
func (s *Session) Last() int {
	return len(s.Tokens) - 1
}

// ResumeOffer describes a saved session that can be reopened.
type ResumeOffer struct {
	URL        string
	SourceText string
	Tokens     []string
	Index      int
	WPM        int
}

// Snapshot is a read-only view of the engine for rendering.
type Snapshot struct {
	State     State
	Token     string
	Index     int
	Total     int
	WPM       int
	Countdown int
	Err       string
	Offer     *ResumeOffer
}
