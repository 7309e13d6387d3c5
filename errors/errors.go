package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Global error registry. Codes are part of the node's external contract and
// must stay stable between releases.
var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should
	// not ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrAmount is returned when processed amount is invalid.
	ErrAmount = Register(12, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(13, "invalid input")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(14, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(15, "database error")

	// ErrCurrency is returned whenever an operation cannot be completed
	// due to a currency issues, for example a ticker mismatch.
	ErrCurrency = Register(16, "currency")

	// ErrNetwork is returned on network failure (only for client libraries)
	ErrNetwork = Register(17, "network")

	// ErrTimeout is returned on context timeout (only for client libraries)
	ErrTimeout = Register(18, "timeout")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure uniqueness.
var usedCodes = map[uint32]*Error{
	// Code 1 is reserved for the internal error case. Whenever an error
	// information is redacted from the client, this code is returned. It
	// must never be used for a registered error.
	1: nil,
}

// Error represents a root error.
//
// All errors that pass over the ABCI boundary are serialized to a code
// and a message. Creating a root error allocates a unique code that all
// derived (wrapped) errors inherit.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		return isNilErr(err)
	}
	for {
		if err == kind {
			return true
		}
		// If this is a collection of errors, this call returns the
		// first error in a set.
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

func isNilErr(err error) bool {
	return err == nil
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide ABCICode method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional functionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) StackTrace() errors.StackTrace {
	if st, ok := e.parent.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) ABCICode() uint32 {
	return abciCode(e.parent)
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Append clubs together all provided errors. Nil values are ignored.
func Append(errs ...error) error {
	var r multiErr
	for _, e := range errs {
		if e != nil {
			r = append(r, e)
		}
	}
	switch len(r) {
	case 0:
		return nil
	case 1:
		return r[0]
	default:
		return r
	}
}

// multiErr represents a group of errors. It "is" all of them.
type multiErr []error

func (e multiErr) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	default:
		msg := e[0].Error()
		for _, err := range e[1:] {
			msg += "; " + err.Error()
		}
		return msg
	}
}

// Cause returns the first error of the set.
func (e multiErr) Cause() error {
	if len(e) == 0 {
		return nil
	}
	return e[0]
}

func (e multiErr) ABCICode() uint32 {
	if len(e) == 0 {
		return SuccessABCICode
	}
	return abciCode(e[0])
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type coder interface {
	ABCICode() uint32
}

// stackTracer is implemented by errors that carry a call stack, as provided
// by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
