// Package fetch implements the fetch orchestration use case: validate a URL,
// fetch it once with a timeout, reduce the HTML and map every failure onto a
// caller-facing status code and message.
package fetch

import "errors"

// Kind classifies a Failure.
type Kind string

// Failure kinds.
const (
	KindInput      Kind = "input"
	KindPolicy     Kind = "policy"
	KindUpstream   Kind = "upstream"
	KindTransport  Kind = "transport"
	KindUnexpected Kind = "unexpected"
)

// Failure is the caller-facing error of HandleFetch. StatusCode and Message
// are safe to return to the caller as-is.
type Failure struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure reports whether err is or wraps a *Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
