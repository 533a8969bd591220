package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/verte-zerg/rapidread/internal/model"
	"github.com/verte-zerg/rapidread/internal/timing"
)

const stateSchemaURL = "schema://rapidread/session-state.json"

const stateSchemaJSON = `{
	"type": "object",
	"properties": {
		"url": {"type": "string"},
		"sourceText": {"type": "string"},
		"wpm": {"type": "integer", "minimum": 1},
		"wordIndex": {"type": "integer", "minimum": 0}
	}
}`

var (
	stateSchemaOnce sync.Once
	stateSchema     *jsonschema.Schema
	stateSchemaErr  error
)

func compiledStateSchema() (*jsonschema.Schema, error) {
	stateSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(stateSchemaJSON))
		if err != nil {
			stateSchemaErr = fmt.Errorf("parse state schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(stateSchemaURL, doc); err != nil {
			stateSchemaErr = fmt.Errorf("add state schema: %w", err)
			return
		}
		stateSchema, stateSchemaErr = c.Compile(stateSchemaURL)
	})
	return stateSchema, stateSchemaErr
}

// SessionStore persists the last reading session in a single slot.
type SessionStore struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// NewSessionStore returns a SessionStore writing to kv under model.StateKey.
func NewSessionStore(kv KV, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionStore{kv: kv, key: model.StateKey, logger: logger}
}

// Load returns the saved state. It never fails: a missing, unreadable or
// malformed record yields defaults, and each invalid field falls back to
// its own default.
func (s *SessionStore) Load(ctx context.Context) model.PersistedState {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read saved session", "error", err)
		return model.DefaultState()
	}
	if !ok {
		return model.DefaultState()
	}
	state, err := decodeState(raw)
	if err != nil {
		s.logger.Warn("discarding saved session", "error", err)
		return model.DefaultState()
	}
	return state
}

// Save writes state. Failures are logged and swallowed.
func (s *SessionStore) Save(ctx context.Context, state model.PersistedState) {
	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("failed to encode session", "error", err)
		return
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.logger.Error("failed to save session", "error", err)
		return
	}
	s.logger.Debug("session saved", "wpm", state.WPM, "word_index", state.WordIndex)
}

// Clear removes the saved session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear saved session: %w", err)
	}
	return nil
}

// Debounced returns a Debouncer that saves the most recent state once
// requests stop arriving for interval.
func (s *SessionStore) Debounced(clock timing.Clock, dispatch timing.Dispatcher, interval time.Duration) *timing.Debouncer[model.PersistedState] {
	return timing.NewDebouncer(clock, dispatch, interval, func(state model.PersistedState) {
		s.Save(context.Background(), state)
	})
}

func decodeState(raw []byte) (model.PersistedState, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return model.PersistedState{}, fmt.Errorf("invalid json: %w", err)
	}
	obj, ok := inst.(map[string]any)
	if !ok {
		return model.PersistedState{}, fmt.Errorf("expected object, got %T", inst)
	}

	bad := map[string]bool{}
	if sch, err := compiledStateSchema(); err == nil {
		if verr := sch.Validate(inst); verr != nil {
			fields, whole := invalidFields(verr)
			if whole {
				return model.PersistedState{}, fmt.Errorf("schema validation failed: %w", verr)
			}
			bad = fields
		}
	}

	state := model.DefaultState()
	if v, ok := stringField(obj, "url", bad); ok {
		state.URL = v
	}
	if v, ok := stringField(obj, "sourceText", bad); ok {
		state.SourceText = v
	}
	if v, ok := intField(obj, "wpm", bad); ok && v >= 1 {
		state.WPM = v
	}
	if v, ok := intField(obj, "wordIndex", bad); ok && v >= 0 {
		state.WordIndex = v
	}
	return state, nil
}

func invalidFields(err error) (map[string]bool, bool) {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, true
	}
	fields := map[string]bool{}
	whole := false
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			if len(e.InstanceLocation) == 0 {
				whole = true
				return
			}
			fields[e.InstanceLocation[0]] = true
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return fields, whole
}

func stringField(obj map[string]any, name string, bad map[string]bool) (string, bool) {
	if bad[name] {
		return "", false
	}
	v, ok := obj[name].(string)
	return v, ok
}

func intField(obj map[string]any, name string, bad map[string]bool) (int, bool) {
	if bad[name] {
		return 0, false
	}
	var f float64
	switch v := obj[name].(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	default:
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
