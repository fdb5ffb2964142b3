package errorx

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Error is the error type returned by every harness package. Details hold one
// entry per offending item so that a single failure reports all of them.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details []Error   `json:"details,omitempty"`

	OriginalError error `json:"-"`
	stack         Callers
}

var _ error = (*Error)(nil)

func newWithStack(t ErrorType, msg string) *Error {
	return &Error{
		Type:    t,
		Message: msg,
		stack:   callers(2),
	}
}

func (e Error) Error() string {
	s := &strings.Builder{}
	fmt.Fprintf(s, "[%s] %s", e.Type.String(), e.Message)
	for _, d := range e.Details {
		s.WriteString("\n")
		s.WriteString(d.Message)
	}
	if e.OriginalError != nil {
		s.WriteString(": ")
		s.WriteString(e.OriginalError.Error())
	}
	return s.String()
}

func (e Error) Unwrap() error {
	return e.OriginalError
}

// StackTrace returns the call stack captured when the error was created.
func (e Error) StackTrace() Callers {
	return e.stack
}

// WithDetails returns a copy of e with the given errors appended to its details.
func (e *Error) WithDetails(details ...*Error) *Error {
	c := *e
	c.Details = make([]Error, 0, len(e.Details)+len(details))
	c.Details = append(c.Details, e.Details...)
	for _, d := range details {
		if d == nil {
			continue
		}
		dd := *d
		dd.stack = nil
		c.Details = append(c.Details, dd)
	}
	return &c
}

// DetailMessages returns the message of every detail, in order.
func (e Error) DetailMessages() []string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func IsError(e error) (*Error, bool) {
	if e == nil {
		return nil, false
	}

	var mE *Error
	if errors.As(e, &mE) && mE != nil {
		if mE.Type == ErrorTypeUnspecified {
			return nil, false
		}
		return mE, true
	}

	if v, ok := pkgerrors.Cause(e).(Error); ok && v.Type != ErrorTypeUnspecified {
		return &v, true
	}

	return nil, false
}
