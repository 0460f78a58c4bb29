// Package errs holds the error taxonomy shared by the driver adapter, page objects and tests.
package errs

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	// Timeout - a wait exceeded its budget (element, URL, signal)
	Timeout Code = "timeout"
	// Interaction - an action hit an element that was not actionable
	Interaction Code = "interaction"
	// NotFound - a read targeted an element that does not exist
	NotFound Code = "not_found"
	// Navigation - the destination could not be reached
	Navigation Code = "navigation"
	// Assertion - observed UI state differs from the expected state
	Assertion Code = "assertion"
	// InvalidArgument - caller passed unusable input (empty locator params, incomplete form)
	InvalidArgument Code = "invalid_argument"
	Internal        Code = "internal"
)

// Error is a coded failure with the operation and UI target it happened on.
type Error struct {
	Code    Code
	Op      string
	Target  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Code)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Target != "" {
		msg += fmt.Sprintf(" [%s]", e.Target)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, op, target, message string) error {
	return &Error{Code: code, Op: op, Target: target, Message: message}
}

// Wrap creates a coded error around cause. A nil cause yields nil.
func Wrap(code Code, op, target string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Target: target, Err: cause}
}

// Assertf builds an Assertion error with a formatted message.
func Assertf(op, target, format string, args ...any) error {
	return &Error{Code: Assertion, Op: op, Target: target, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the outermost code in the chain, Internal for uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) && coded.Code != "" {
		return coded.Code
	}
	return Internal
}

// Is reports whether any error in the chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.Err
	}
	return false
}
