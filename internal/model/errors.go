package model

import (
	"errors"
	"fmt"
)

// ErrEmptyContent reports acquired text that produced no tokens.
var ErrEmptyContent = errors.New("no readable content found")

const upstreamMessage = "failed to load content, please try again"

// ValidationError is a user mistake whose message is shown verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure of the content source. Its details are
// logged but never shown to the user.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UserMessage maps an acquisition error to the text shown on screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Msg
	}
	if errors.Is(err, ErrEmptyContent) {
		return ErrEmptyContent.Error()
	}
	return upstreamMessage
}
