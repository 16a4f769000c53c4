package extraction

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways an extraction attempt can fail.
// Every kind is terminal for the attempt; nothing is retried here.
type ErrorKind string

const (
	// KindInvalidInput means the document was missing or of the wrong type.
	// It is reported before any call to the model.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindTransportFailure means the call to the model did not complete.
	KindTransportFailure ErrorKind = "transport_failure"

	// KindInvalidResponseFormat means the model answered but the payload was
	// not a JSON array of well-formed transactions.
	KindInvalidResponseFormat ErrorKind = "invalid_response_format"
)

// Sentinels usable with errors.Is.
var (
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrTransportFailure      = &Error{Kind: KindTransportFailure}
	ErrInvalidResponseFormat = &Error{Kind: KindInvalidResponseFormat}
)

var errEmptyResponse = errors.New("empty response")

// Error is the single error type returned by Extract.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Raw is the offending model response for KindInvalidResponseFormat.
	// It is meant for diagnostic logs only and must not reach end users.
	Raw string

	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so the package sentinels work
// with errors.Is regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// RawResponse returns the raw model output carried by err, if any.
func RawResponse(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Raw
	}
	return ""
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

func transportFailure(err error) *Error {
	return &Error{Kind: KindTransportFailure, Msg: "model call did not complete", Err: err}
}

func invalidResponse(raw string, err error) *Error {
	return &Error{Kind: KindInvalidResponseFormat, Msg: "model returned an invalid format", Raw: raw, Err: err}
}
