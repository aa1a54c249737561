package llm

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindMissingCredential is fatal and reported before any surface is shown.
	KindMissingCredential
	KindTransport
	KindUpstream
	KindMalformedResponse
	KindInvalidParameters
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindTransport:
		return "transport_error"
	case KindUpstream:
		return "upstream_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindInvalidParameters:
		return "invalid_parameters"
	default:
		return "unknown"
	}
}

// Error is the single failure type returned by providers.
type Error struct {
	Kind ErrorKind
	// StatusCode and Message are set for KindUpstream.
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUpstream:
		return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Message)
	case KindMissingCredential:
		return "missing credential: LLM_API_KEY is not set"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.StatusCode == 0 && t.Message == "" && t.Err == nil
}

// UserMessage is the text shown inline in the interface.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindMissingCredential:
		return "Configuration error: no API key is available. Set LLM_API_KEY and restart."
	case KindTransport:
		return "Could not reach the completion service. Please try again."
	case KindUpstream:
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.StatusCode)
		}
		return fmt.Sprintf("The completion service returned %d: %s", e.StatusCode, msg)
	case KindMalformedResponse:
		return "The completion service returned a response that could not be parsed."
	case KindInvalidParameters:
		return fmt.Sprintf("Invalid generation parameters: %v", e.Err)
	default:
		return "Unexpected error."
	}
}

var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrTransport         = &Error{Kind: KindTransport}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrInvalidParameters = &Error{Kind: KindInvalidParameters}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

func upstreamError(status int, message string) *Error {
	return &Error{Kind: KindUpstream, StatusCode: status, Message: message}
}

func malformedError(format string, args ...any) *Error {
	return &Error{Kind: KindMalformedResponse, Err: fmt.Errorf(format, args...)}
}

func invalidParams(err error) *Error {
	return &Error{Kind: KindInvalidParameters, Err: err}
}
