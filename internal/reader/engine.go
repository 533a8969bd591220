package reader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/rapidread/internal/acquire"
	"github.com/verte-zerg/rapidread/internal/model"
	"github.com/verte-zerg/rapidread/internal/timing"
	"github.com/verte-zerg/rapidread/internal/tokenize"
)

// Fetcher loads content for a classified source.
type Fetcher interface {
	Fetch(ctx context.Context, src acquire.Source) (string, error)
}

// Persister loads the saved session once and saves progress through a
// debouncer.
type Persister interface {
	Load(ctx context.Context) model.PersistedState
	Debounced(clock timing.Clock, dispatch timing.Dispatcher, interval time.Duration) *timing.Debouncer[model.PersistedState]
}

// HistoryRecorder stores finished reading runs.
type HistoryRecorder interface {
	InsertRead(ctx context.Context, rec model.ReadRecord) error
}

// Options configures an Engine. Only Dispatch matters for correctness:
// every timer and load result is delivered through it.
type Options struct {
	Clock        timing.Clock
	Dispatch     timing.Dispatcher
	Spawn        func(func())
	Fetcher      Fetcher
	Persister    Persister
	History      HistoryRecorder
	Logger       *slog.Logger
	WPM          int
	SaveInterval time.Duration
	NewID        func() string
}

// Engine is the playback state machine. It is not safe for concurrent
// use: call it only from the dispatcher's context.
type Engine struct {
	clock    timing.Clock
	dispatch timing.Dispatcher
	spawn    func(func())
	fetcher  Fetcher
	history  HistoryRecorder
	logger   *slog.Logger
	newID    func() string

	scheduler *timing.Scheduler
	countdown *timing.Slot
	saver     *timing.Debouncer[model.PersistedState]

	ctx    context.Context
	cancel context.CancelFunc

	state         State
	session       *Session
	offer         *ResumeOffer
	wpm           int
	countdownLeft int
	lastDelay     time.Duration
	errMsg        string

	loading    acquire.Source
	load       uint64
	cancelLoad context.CancelFunc
	closed     bool
}

// New builds an Engine in StateInput. If a persister is given, the saved
// session is loaded once and exposed through Offer.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = timing.SystemClock()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = timing.Inline
	}
	if opts.Spawn == nil {
		opts.Spawn = func(f func()) { go f() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.WPM <= 0 {
		opts.WPM = model.DefaultWPM
	}
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = model.DefaultSaveInterval
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		clock:    opts.Clock,
		dispatch: opts.Dispatch,
		spawn:    opts.Spawn,
		fetcher:  opts.Fetcher,
		history:  opts.History,
		logger:   opts.Logger,
		newID:    opts.NewID,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateInput,
		wpm:      opts.WPM,
	}
	e.scheduler = timing.NewScheduler(e.clock, e.dispatch, func() { e.fire(Advance{}) })
	e.countdown = timing.NewSlot(e.clock, e.dispatch)
	if opts.Persister != nil {
		e.saver = opts.Persister.Debounced(e.clock, e.dispatch, opts.SaveInterval)
		e.restore(opts.Persister.Load(ctx))
	}
	return e
}

func (e *Engine) restore(saved model.PersistedState) {
	if saved.SourceText == "" {
		return
	}
	tokens := tokenize.Tokenize(saved.SourceText)
	if len(tokens) == 0 {
		return
	}
	wpm := saved.WPM
	if wpm <= 0 {
		wpm = model.DefaultWPM
	}
	e.offer = &ResumeOffer{
		URL:        saved.URL,
		SourceText: saved.SourceText,
		Tokens:     tokens,
		Index:      clamp(saved.WordIndex, 0, len(tokens)-1),
		WPM:        wpm,
	}
	e.logger.Info("saved session found", "words", len(tokens), "word_index", e.offer.Index, "wpm", wpm)
}

// Dispatch applies t to the current state. A trigger the state does not
// accept returns an error wrapping ErrInvalidTransition and changes nothing.
func (e *Engine) Dispatch(t Trigger) error {
	if e.closed {
		return fmt.Errorf("%w: %s after close", ErrInvalidTransition, t.triggerName())
	}
	switch t := t.(type) {
	case Submit:
		if e.state == StateInput {
			e.submit(t.Input)
			return nil
		}
	case Acquired:
		if e.state == StateLoading && t.load == e.load {
			e.finishLoad(t)
			return nil
		}
	case CountdownTick:
		if e.state == StateCountdown {
			e.tick()
			return nil
		}
	case Advance:
		if e.state == StatePlaying {
			e.advance()
			return nil
		}
	case Pause:
		if e.state == StatePlaying {
			e.pause()
			return nil
		}
	case Play:
		if e.state == StatePaused || e.state == StateFinished {
			e.play()
			return nil
		}
	case Toggle:
		switch e.state {
		case StatePlaying:
			e.pause()
			return nil
		case StatePaused, StateFinished:
			e.play()
			return nil
		}
	case Restart:
		if e.state == StatePlaying || e.state == StateFinished {
			e.restart()
			return nil
		}
	case Back:
		switch e.state {
		case StateCountdown, StatePlaying, StatePaused, StateFinished:
			e.back()
			return nil
		}
	case Seek:
		if e.hasControls() {
			e.seek(t.Delta)
			return nil
		}
	case ChangeWPM:
		if e.hasControls() {
			e.changeWPM(t.Delta)
			return nil
		}
	case AcceptResume:
		if e.state == StateInput && e.offer != nil {
			e.acceptResume()
			return nil
		}
	case DeclineResume:
		if e.state == StateInput && e.offer != nil {
			e.offer = nil
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, t.triggerName(), e.state)
}

func (e *Engine) fire(t Trigger) {
	if err := e.Dispatch(t); err != nil {
		e.logger.Debug("trigger dropped", "error", err)
	}
}

func (e *Engine) hasControls() bool {
	return e.state == StatePlaying || e.state == StatePaused || e.state == StateFinished
}

func (e *Engine) setState(next State) {
	if next != StatePlaying {
		e.scheduler.Cancel()
	}
	if next != e.state {
		e.logger.Debug("state changed", "from", e.state, "to", next)
	}
	e.state = next
}

func (e *Engine) submit(input string) {
	if strings.TrimSpace(input) == "" {
		e.errMsg = model.UserMessage(model.Validationf("nothing to read: enter text, a file path or a URL"))
		return
	}
	e.offer = nil
	e.errMsg = ""
	e.setState(StateLoading)
	e.load++
	load := e.load
	src := acquire.Classify(input)
	e.loading = src

	if src.Kind == acquire.KindText || e.fetcher == nil {
		e.finishLoad(Acquired{load: load, Text: input})
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	e.cancelLoad = cancel
	fetcher, dispatch := e.fetcher, e.dispatch
	e.logger.Info("loading content", "source", src.Kind, "value", src.Value)
	e.spawn(func() {
		text, err := fetcher.Fetch(ctx, src)
		dispatch(func() {
			e.fire(Acquired{load: load, Text: text, Err: err})
		})
	})
}

func (e *Engine) finishLoad(a Acquired) {
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	src := e.loading
	e.loading = acquire.Source{}
	if a.Err != nil {
		e.fail(a.Err)
		return
	}
	tokens := tokenize.Tokenize(a.Text)
	if len(tokens) == 0 {
		e.fail(fmt.Errorf("%s source: %w", src.Kind, model.ErrEmptyContent))
		return
	}

	s := &Session{
		ID:         e.newID(),
		Source:     src.Kind.String(),
		SourceText: a.Text,
		Tokens:     tokens,
		WPM:        e.wpm,
		StartedAt:  e.clock.Now(),
	}
	if src.Kind == acquire.KindURL {
		s.URL = src.Value
	}
	e.session = s
	e.logger.Info("session started", "session", s.ID, "source", s.Source, "words", len(tokens), "wpm", s.WPM)
	e.persist()
	e.startCountdown()
}

func (e *Engine) fail(err error) {
	e.session = nil
	e.errMsg = model.UserMessage(err)
	e.logger.Warn("content load failed", "error", err)
	e.setState(StateInput)
}

func (e *Engine) startCountdown() {
	e.setState(StateCountdown)
	e.countdownLeft = model.CountdownTicks
	e.armCountdown()
}

func (e *Engine) armCountdown() {
	e.countdown.Arm(model.CountdownInterval, func() { e.fire(CountdownTick{}) })
}

func (e *Engine) tick() {
	if e.countdownLeft > 1 {
		e.countdownLeft--
		e.armCountdown()
		return
	}
	e.countdownLeft = 0
	e.session.StartedAt = e.clock.Now()
	e.setState(StatePlaying)
	e.scheduleCurrent()
}

func (e *Engine) scheduleCurrent() {
	s := e.session
	e.lastDelay = e.scheduler.Schedule(s.Tokens[s.Index], s.WPM)
}

func (e *Engine) advance() {
	s := e.session
	if s.Index < s.Last() {
		s.Index++
		e.persist()
		e.scheduleCurrent()
		return
	}
	e.setState(StateFinished)
	e.recordFinished()
}

func (e *Engine) pause() {
	e.setState(StatePaused)
}

func (e *Engine) play() {
	s := e.session
	if e.state == StateFinished {
		s.StartedAt = e.clock.Now()
	}
	if s.Index == s.Last() {
		s.Index = 0
		e.persist()
	}
	e.setState(StatePlaying)
	e.scheduleCurrent()
}

func (e *Engine) restart() {
	e.scheduler.Cancel()
	s := e.session
	s.Index = 0
	s.StartedAt = e.clock.Now()
	e.persist()
	e.setState(StatePlaying)
	e.scheduleCurrent()
}

func (e *Engine) back() {
	e.scheduler.Cancel()
	e.countdown.Cancel()
	e.countdownLeft = 0
	e.flushSave()
	e.session = nil
	e.errMsg = ""
	e.setState(StateInput)
}

func (e *Engine) seek(delta int) {
	s := e.session
	s.Index = clamp(s.Index+delta, 0, s.Last())
	e.persist()
	if e.state == StatePlaying {
		e.scheduleCurrent()
	}
}

func (e *Engine) changeWPM(delta int) {
	s := e.session
	s.WPM = model.StepWPM(s.WPM, delta)
	e.wpm = s.WPM
	e.persist()
	if e.state == StatePlaying {
		e.scheduler.Cancel()
		e.scheduleCurrent()
	}
}

func (e *Engine) acceptResume() {
	o := e.offer
	e.offer = nil
	source := model.SourceText
	if o.URL != "" {
		source = model.SourceURL
	}
	e.session = &Session{
		ID:         e.newID(),
		Source:     source,
		URL:        o.URL,
		SourceText: o.SourceText,
		Tokens:     o.Tokens,
		Index:      clamp(o.Index, 0, len(o.Tokens)-1),
		WPM:        o.WPM,
		StartedAt:  e.clock.Now(),
	}
	e.wpm = o.WPM
	e.errMsg = ""
	e.logger.Info("session resumed", "session", e.session.ID, "word_index", e.session.Index, "words", len(o.Tokens))
	e.persist()
	e.setState(StatePaused)
}

func (e *Engine) persist() {
	if e.saver == nil || e.session == nil {
		return
	}
	s := e.session
	e.saver.Request(model.PersistedState{
		URL:        s.URL,
		SourceText: s.SourceText,
		WPM:        s.WPM,
		WordIndex:  s.Index,
	})
}

func (e *Engine) flushSave() {
	if e.saver != nil {
		e.saver.Flush()
	}
}

func (e *Engine) recordFinished() {
	s := e.session
	now := e.clock.Now()
	e.logger.Info("session finished", "session", s.ID, "words", len(s.Tokens), "elapsed", now.Sub(s.StartedAt))
	if e.history == nil {
		return
	}
	rec := model.ReadRecord{
		ID:         e.newID(),
		StartedAt:  s.StartedAt,
		EndedAt:    now,
		Source:     s.Source,
		URL:        s.URL,
		Words:      len(s.Tokens),
		WPM:        s.WPM,
		DurationMs: now.Sub(s.StartedAt).Milliseconds(),
	}
	if err := e.history.InsertRead(e.ctx, rec); err != nil {
		e.logger.Error("failed to record read", "error", err)
	}
}

// Close cancels every timer and pending load and flushes the pending
// save. The engine rejects all triggers afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.scheduler.Cancel()
	e.countdown.Cancel()
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	e.flushSave()
	e.cancel()
	e.closed = true
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Session returns the live session, or nil outside a session.
func (e *Engine) Session() *Session {
	return e.session
}

// Offer returns the saved-session offer, or nil.
func (e *Engine) Offer() *ResumeOffer {
	return e.offer
}

// Err returns the message of the last failed submission.
func (e *Engine) Err() string {
	return e.errMsg
}

// AdvancePending reports whether a word advance is armed.
func (e *Engine) AdvancePending() bool {
	return e.scheduler.Pending()
}

// LastDelay returns the delay of the most recently scheduled advance.
func (e *Engine) LastDelay() time.Duration {
	return e.lastDelay
}

// Snapshot returns what the front end needs to draw the current frame.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:     e.state,
		WPM:       e.wpm,
		Countdown: e.countdownLeft,
		Err:       e.errMsg,
	}
	if e.offer != nil {
		offer := *e.offer
		snap.Offer = &offer
	}
	if s := e.session; s != nil {
		snap.Token = s.Tokens[s.Index]
		snap.Index = s.Index
		snap.Total = len(s.Tokens)
		snap.WPM = s.WPM
	}
	return snap
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
