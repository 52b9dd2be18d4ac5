package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error kinds. Every error produced by the interpreter is derived from one of
// these sentinels, so errors.Is reports the kind regardless of detail.
var (
	ErrSyntax         = NewError("Syntax error")
	ErrRuntime        = NewError("Runtime error")
	ErrType           = NewError("Type error")
	ErrUndefined      = NewError("Undefined")
	ErrDivisionByZero = NewError("Division by zero")
	ErrOutOfMemory    = NewError("Out of memory")
	ErrIO             = NewError("I/O error")
	ErrLineNumber     = NewError("Line number error")

	// ErrProgramEnd is raised by END and STOP. It is a control signal rather
	// than a failure and never escapes Run, Load, or Exec.
	ErrProgramEnd = NewError("Program end")
)

// Error represents an interpreter error with optional structured logging
// attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  *Error
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new error kind with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
// Errors that already are (or wrap) an *Error are returned as-is.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return ErrRuntime.Wrap(err)
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same error kind as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.kind != nil && e.kind == t.kind)
}

// Kind returns the sentinel this error was derived from.
func (e *Error) Kind() *Error { return e.kind }

// Detail returns the message following the kind prefix.
func (e *Error) Detail() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error of the same kind wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// Errorf creates a new Error of the same kind with a formatted detail
// message.
func (e *Error) Errorf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Attrs returns the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// withLine attaches the executing line number to err if it is an *Error that
// does not yet carry one.
func withLine(err error, line int) error {
	var ee *Error
	if !errors.As(err, &ee) || line < 0 {
		return err
	}

	for _, a := range ee.attrs {
		if a.Key == "line" {
			return err
		}
	}

	return ee.With(slog.Int("line", line))
}
