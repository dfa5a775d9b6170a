// Package errors defines the coded errors shared by the pipeline, the CLI
// and the HTTP server.
//
// A code is a stable string callers branch on; the message is for people.
// Codes starting with INVALID_ mark input the caller must fix. The CLI
// exits 2 for them and the server answers 400.
//
//	err := errors.Wrap(errors.ErrCodeInvalidWeight, werr, "flatten")
//	if errors.Is(err, errors.ErrCodeInvalidWeight) { ... }
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidTree    Code = "INVALID_TREE"
	ErrCodeInvalidWeight  Code = "INVALID_WEIGHT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle   Code = "INVALID_STYLE"
	ErrCodeInvalidVizType Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidPolicy  Code = "INVALID_POLICY"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	ErrCodeMeasure Code = "MEASURE_FAILED"
	ErrCodeLayout  Code = "LAYOUT_FAILED"
	ErrCodeRender  Code = "RENDER_FAILED"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// coded is implemented by every error in this package that carries a code.
type coded interface {
	error
	ErrorCode() Code
}

// Error pairs a code and message with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// New returns an *Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error with cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any error in err's chain carries code. An
// INVALID_WEIGHT error wrapped by RENDER_FAILED matches both.
func Is(err error, code Code) bool {
	for ; err != nil; err = stderrors.Unwrap(err) {
		if c, ok := err.(coded); ok && c.ErrorCode() == code {
			return true
		}
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" when there is
// none.
func GetCode(err error) Code {
	var c coded
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// WeightError rejects a node whose count is negative, NaN or infinite.
type WeightError struct {
	Path  string // slash-separated child indices from the root, e.g. "0/2/1"
	Count float64
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("node %s: invalid count %v", e.Path, e.Count)
}

// ErrorCode is always ErrCodeInvalidWeight.
func (e *WeightError) ErrorCode() Code { return ErrCodeInvalidWeight }
