package dispatch

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/pkg/errors"
)

// Error is the single error type handlers report through. The dispatcher
// turns it into exactly one response in the resolved format.
type Error struct {
	Code    int
	Message string
	Fault   error
}

func (e *Error) Error() string {
	if e.Fault != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Fault)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Fault
}

// NewError reports a failure without an underlying fault.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf reports a failure with a formatted message.
func Errorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a fault, capturing a stack trace when it has none.
func WrapError(code int, message string, fault error) *Error {
	if fault != nil && stackOf(fault) == nil {
		fault = errors.WithStack(fault)
	}
	return &Error{Code: code, Message: message, Fault: fault}
}

// asError converts anything a handler returned into an *Error.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapError(http.StatusInternalServerError, "Internal server error", err)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackOf(err error) errors.StackTrace {
	var st stackTracer
	if errors.As(err, &st) {
		return st.StackTrace()
	}
	return nil
}

// Frame is one entry of a fault's stack trace.
type Frame struct {
	File     string
	Line     int
	Function string
}

// Frames resolves the stack trace recorded on a fault.
func Frames(fault error) []Frame {
	trace := stackOf(fault)
	frames := make([]Frame, 0, len(trace))
	for _, f := range trace {
		pc := uintptr(f) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			frames = append(frames, Frame{Function: "unknown"})
			continue
		}
		file, line := fn.FileLine(pc)
		frames = append(frames, Frame{File: file, Line: line, Function: fn.Name()})
	}
	return frames
}

// Report is the full diagnostic text of a fault, stack included.
func Report(fault error) string {
	if fault == nil {
		return ""
	}
	return fmt.Sprintf("%+v", fault)
}
