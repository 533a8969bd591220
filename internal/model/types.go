// Package model defines shared data structures.
package model

import "time"

// Reading defaults and limits.
const (
	DefaultWPM = 450
	MinWPM     = 50
	MaxWPM     = 2000
	WPMStep    = 25

	SeekSmall = 1
	SeekLarge = 10

	CountdownTicks    = 3
	CountdownInterval = 500 * time.Millisecond

	DefaultSaveInterval = 500 * time.Millisecond
)

// StateKey is the storage key of the single persisted session slot.
const StateKey = "rapidread.session"

// Config defines reader settings resolved from flags and the config file.
type Config struct {
	WPM          int
	SaveInterval time.Duration
	Backend      string
	StorePath    string
	FetchTimeout time.Duration
	FetchMax     int64
	UserAgent    string
}

// PersistedState is the on-disk shape of the last session.
type PersistedState struct {
	URL        string `json:"url"`
	SourceText string `json:"sourceText"`
	WPM        int    `json:"wpm"`
	WordIndex  int    `json:"wordIndex"`
}

// DefaultState returns the record used when nothing valid is stored.
func DefaultState() PersistedState {
	return PersistedState{WPM: DefaultWPM}
}

// Source kinds recorded in reading history.
const (
	SourceText = "text"
	SourceFile = "file"
	SourceURL  = "url"
)

// ReadRecord captures a finished reading run.
type ReadRecord struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	Source     string
	URL        string
	Words      int
	WPM        int
	DurationMs int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// StepWPM applies a control delta to wpm and snaps the result to the
// nearest multiple of WPMStep within [MinWPM, MaxWPM].
func StepWPM(wpm, delta int) int {
	next := wpm + delta
	if next < 0 {
		next = 0
	}
	next = (next + WPMStep/2) / WPMStep * WPMStep
	return ClampWPM(next)
}

// ClampWPM bounds a control-driven rate to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}
